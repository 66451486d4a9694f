// Package auth manages Google OAuth2 credentials for the YouTube Data API.
//
// # Credential Lifecycle
//
// [Manager.Obtain] resolves a usable token in three steps, stopping at the
// first that succeeds:
//
//  1. A cached token with a future expiry is returned as-is, without any
//     network traffic.
//  2. An expired token that carries a refresh token is refreshed against the
//     token endpoint; the refreshed token is persisted before it is returned.
//  3. Otherwise the interactive consent flow runs: a local callback server
//     starts, the system browser opens the Google consent page, and the
//     authorization code is exchanged for a token.
//
// A refresh failure (revoked grant, changed client secret) falls through to
// the interactive flow rather than aborting.
//
// # Token Cache
//
// Tokens are cached as JSON at the path configured under
// [credentials.token_cache], written with owner-only permissions. [Manager.Reset]
// deletes the cache, forcing the next [Manager.Obtain] through the full
// consent flow.
//
// # HTTP Client
//
// [Manager.Client] wraps the resolved token in a self-refreshing
// [net/http.Client]; refreshed tokens are written back to the cache so later
// invocations keep benefiting from them.
package auth

// Package services defines the [Service] interface for the music platform and
// implements it for the Spotify Web API.
//
// # Pagination
//
// Collection reads use limit/offset pagination. Each fetch loop issues the
// next request only after the previous one completes, appends the page to an
// accumulator, and stops when the response's next cursor is null or a page
// comes back shorter than the requested limit.
//
// # Writes
//
// Playlist and library writes are batched to the platform's per-request
// limits (100 playlist items, 50 library saves) with a [rate.Limiter] between
// batches. Batch order is preserved so the published playlist matches the
// sorted input.
//
// # Error Handling
//
// HTTP status codes map onto typed errors from the shared package:
//   - 401 → [shared.ErrTokenExpired]
//   - 403 → [shared.ErrAuthFailed] (missing scope)
//   - 404 → [shared.ErrPlaylistNotFound]
//   - 429 → [shared.ErrRateLimited] (Retry-After included in the message; never retried here)
//   - other non-2xx → [shared.ErrAPIRequest]
package services

// Package services implements the API Client for the soundx streaming backend.
//
// # API Client
//
// [APIClient.Send] performs exactly one HTTP attempt per call. It attaches
// "Authorization: Bearer <credential>" whenever the configured [CredentialSource] (or a
// request-scoped override installed with [WithCredential]) yields a credential.
//
// Responses outside 2xx are normalised into [*APIError]. The backend reports failures as
// {"error": "..."}; when the body is missing or unparseable the message falls back to
// "Request failed: <status>".
//
// # Catalog
//
// [Catalog] is the typed surface the core consumes, one method per backend operation:
//
//	POST   /auth/signup                 SignUp
//	POST   /auth/signin                 SignIn
//	GET    /me                          Me
//	GET    /playlists                   ListPlaylists
//	POST   /playlists                   CreatePlaylist
//	GET    /playlists/:id               GetPlaylist
//	POST   /playlists/:id/tracks        AddTrack
//	DELETE /playlists/:id/tracks/:tid   RemoveTrack
//	GET    /search?q=                   Search
//	GET    /recently-played             RecentlyPlayed
//	POST   /recently-played             LogPlay
//
// [APIClient.StreamURL] builds the audio URL locally; it carries the credential as a query
// parameter because it is consumed by a media player rather than a scripted request.
//
// # Error Handling
//
// Every failure returned by the client satisfies errors.Is(err, [shared.ErrAPIRequest]).
// Transport failures carry Status 0.
package services

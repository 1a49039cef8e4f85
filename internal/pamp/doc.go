// Package pamp provides an HTTP client for the training-log REST API.
//
// # Overview
//
// The package defines the wire types exchanged with the server and a Client
// that performs every call the terminal client needs: posts, the user profile,
// training sessions, authentication and Telegram linking.
//
// # Architecture
//
//   - client.go: HTTP client, request construction, response decoding
//   - form.go: multipart payloads for posts and the avatar upload
//   - errors.go: APIError and server error-body parsing
//   - types.go: data structures mirroring the server's JSON
//
// # Client Usage
//
//	client, err := pamp.NewClient("127.0.0.1:8000", session)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//	posts, err := client.FetchMyPosts(ctx)
//
// The TokenSource passed to NewClient is consulted on every request, so a
// token refreshed in the background is picked up without rebuilding the client.
// Token, refresh, registration and Google login calls never carry the bearer
// header: an expired access token would make the server reject them.
//
// # Endpoints
//
//   - GET /api/posts/?mine=true, GET /api/posts/?exclude_mine=true
//   - POST /api/posts/, PUT /api/posts/{id}/, DELETE /api/posts/{id}/
//   - GET /api/user-profile/, PUT /api/profiles/me/
//   - GET|POST /api/training-sessions/, PATCH|DELETE /api/training-sessions/{id}/
//   - POST /api/token/, POST /api/token/refresh/, POST /api/register/
//   - POST /auth/google/login/
//   - POST /api/link-telegram/, GET /api/link-telegram/status/
//
// # Multipart Uploads
//
// Post create and update are sent as multipart/form-data. Media rows already
// stored on the server are listed by id in existing_images and existing_videos;
// any stored row missing from those lists is deleted by the server. New files
// go in images/videos, new links in image_urls/video_urls. Bodies are streamed
// through an io.Pipe so video files are not held in memory.
//
// # Error Handling
//
// Responses with status >= 400 are returned as *APIError. The server's
// "detail" or "message" field, or its per-field validation lists, become the
// Detail shown to the user. Transport and decode failures are wrapped with
// fmt.Errorf. Message turns any of them into a short line for the status bar.
package pamp

// Package api provides the HTTP client for the transcript analysis backend.
//
// # Overview
//
// Every service module reaches the backend through a single Client. The
// client owns URL construction, credential propagation, header selection,
// response unwrapping, and translation of failures into one error taxonomy.
//
// # Base URL
//
// The base URL is resolved once, when the client is built:
//
//   - "/api" (default) → http://127.0.0.1:8000/api
//   - "/v2/api" with origin "10.0.0.5:9000" → http://10.0.0.5:9000/v2/api
//   - "https://rail.example/api" → used as-is, origin ignored
//
// Endpoint paths handed to Get/Post/PostForm/Delete are relative to it and
// must already be escaped. BaseURL exposes the result so callers can build
// URLs that are fetched by something else, such as an audio player.
//
// # Credentials
//
// The backend authenticates with a session cookie. The client keeps it in a
// cookie jar and, when given a CookiePersister, restores it on start and
// saves it whenever a response changes it. The client never handles tokens
// itself.
//
// # Request Shaping
//
//   - GET: query built from Params; nil, nil pointers and "" are omitted,
//     0 and false are sent
//   - POST: JSON body when one is given, no body otherwise
//   - POST (multipart): Form; the content type is the multipart one with its
//     boundary, never application/json
//   - DELETE: no body
//
// JSON requests carry Accept and Content-Type application/json, a
// User-Agent, and an X-Request-ID.
//
// # Error Handling
//
//   - *Error: non-2xx response, with Status and Detail. Detail comes from the
//     body's "detail" or "message" field, else the status text, else
//     "HTTP <status>". Reading the body never replaces the rejection.
//   - *TransportError: no response at all (refused, timeout, cancelled).
//   - *DecodeError: a 2xx body that is not the expected JSON.
//
// A 204 response returns nil without reading the body. Classify and Describe
// let callers branch on the kind and render "request failed: <detail>".
package api

// Package localstore persists small pieces of client state between runs.
//
// Store keeps string entries in a single TOML document (state.toml) under
// the state directory, default ~/.local/state/railscope. It plays the part a
// browser's localStorage plays for a web client: the session package keeps
// the last verified user under "auth_user", and CookieStore keeps the
// backend session cookie under "cookies" so a later invocation is still
// signed in.
//
// Writes go to a temp file in the same directory and are renamed into place.
// A mutex serialises access within a process. Memory offers the same surface
// without touching disk.
package localstore

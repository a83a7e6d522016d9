// Package session owns who is signed in.
//
// A Manager is the single writer of session state. It has three transitions:
//
//   - Bootstrap shows the locally saved user straight away (Loading is true,
//     FromSnapshot is true) and confirms it with GET /me in the background.
//     Success replaces the user with the backend's record; any failure clears
//     both the user and the saved copy. The returned Task can be cancelled,
//     after which its result is dropped.
//   - Login posts the credentials, then fetches /me, and only then replaces
//     the user. A failed attempt leaves state untouched and is reported in a
//     LoginResult instead of an error.
//   - Logout asks the backend to end the session, ignores its answer, and
//     clears everything locally.
//
// Login and Logout bump a generation counter, so a bootstrap still waiting
// on /me cannot overwrite them when it finally answers.
//
// Readers call State for a copy or Subscribe for a stream of copies.
//
// Roles are derived from the is_admin and is_super_admin flags and never set
// directly. EffectiveDivisionFilter decides which division a scoped query
// must carry for a given user.
package session

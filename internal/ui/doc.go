// Package ui is the railscope terminal dashboard, built on Bubble Tea.
//
// # Views
//
//   - Splash: shown while a session restore has nothing to display yet
//   - Login: username, password and optional division; shown once the
//     session settles on anonymous
//   - Overview: dashboard summary, database stats, keyword KPI and violation
//     panels read from the shared state.Store
//   - Search: transcript keyword search scoped to the effective division
//
// The active view follows the session. A restored snapshot user sees the
// overview immediately with a "verifying" badge; if verification fails the
// session turns anonymous and the login form replaces it.
//
// # Data Flow
//
// The model never calls the backend for dashboard data. A background
// refresher writes state.Store, and the model copies a snapshot on every
// tick. Session transitions arrive on the channel returned by
// session.Manager.Subscribe. Login, logout and search run as tea.Cmds so the
// event loop never blocks on the network.
//
// # Key Bindings
//
// See keys.go. Global: ctrl+c quits from anywhere, ? toggles help, T cycles
// the theme (saved to prefs). Overview: r refreshes, / searches, L logs out,
// d cycles the division filter for super admins (saved to prefs).
package ui

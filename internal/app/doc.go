// Package app is the composition root for railscope.
//
// # Overview
//
// New loads configuration, builds the logger, opens the local state store and
// wires the API client, service set and session manager together. The CLI
// and the dashboard both start from an *App.
//
// # Data Flow
//
//	Run()
//	  ├─> New()                     config, logging, localstore, api, services, session
//	  ├─> prefs.Load()              saved theme
//	  ├─> Session.Bootstrap()       restore snapshot, verify with /me
//	  ├─> Refresher.Start()         background widget refresh
//	  └─> ui.Run()                  blocks until quit
//
// # Refresh Behavior
//
// The refresher fetches dashboard data, database stats, transcript KPI and
// violation analysis concurrently. Each widget records its own error without
// holding up the others, and the whole batch is committed to the state store
// in one step. Nothing is fetched while no verified session exists. When every
// widget fails the next attempt backs off, doubling the interval up to five
// minutes.
package app

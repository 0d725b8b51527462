// Package session holds the authoritative in-memory record of the dashboard
// session and the coordinator that keeps its tokens fresh.
//
// State is mutated only through its transitions (LoginStart, LoginSuccess,
// LoginFailure, Logout, CheckAuth and the refresh bookkeeping). LoginSuccess and
// Logout are the only writers of the credential store.
//
// Manager wraps State with the network side: Login, and Refresh/RefreshStale,
// which collapse every concurrent caller into a single refresh exchange whose
// result is shared. A failed exchange ends the session (Logout) and redirects
// the application to its login route exactly once per exchange.
package session

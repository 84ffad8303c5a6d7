package domain

// Session phases. A session starts Uninitialized and leaves that phase on
// the first event delivered by the identity provider; it never returns to
// it afterwards.
const (
	SessionUninitialized = "uninitialized"
	SessionAuthenticated = "authenticated"
	SessionAnonymous     = "anonymous"
)

// Session is a snapshot of the process-wide identity state.
type Session struct {
	Phase string
	User  *Identity // Set only when Phase is SessionAuthenticated
}

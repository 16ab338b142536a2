package domain

import "strings"

// SessionState is the read-only status signal of the external AR session.
type SessionState int

const (
	SessionValid SessionState = iota
	SessionPermissionDenied
	SessionFatalError
	SessionOther
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	switch s {
	case SessionValid:
		return "valid"
	case SessionPermissionDenied:
		return "permission_denied"
	case SessionFatalError:
		return "fatal_error"
	default:
		return "other"
	}
}

// IsValid reports whether frames may be read from the session.
func (s SessionState) IsValid() bool {
	return s == SessionValid
}

// IsFatal reports whether the state must shut the application down.
func (s SessionState) IsFatal() bool {
	return s == SessionPermissionDenied || s == SessionFatalError
}

// ParseSessionState maps a status word to a SessionState.
// Unrecognized words map to SessionOther.
func ParseSessionState(s string) SessionState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "valid", "tracking", "ok":
		return SessionValid
	case "permission_denied", "error_permission_not_granted":
		return SessionPermissionDenied
	case "fatal_error", "fatal":
		return SessionFatalError
	default:
		return SessionOther
	}
}

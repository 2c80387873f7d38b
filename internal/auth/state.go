package auth

// State is the high-level authentication lifecycle position. Anonymous and
// expired are both signed out; expired only exists to tell "was signed in,
// session died" apart from "never signed in" for messaging.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateChallengePending
	StateAuthenticated
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateChallengePending:
		return "challengePending"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// SignedOut reports whether s accepts the login transition.
func (s State) SignedOut() bool {
	return s == StateAnonymous || s == StateExpired
}

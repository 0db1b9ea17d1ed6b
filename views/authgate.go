package views

import "fmt"

// AuthState is the client-side authentication gate.
type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticating
	Authenticated
)

func (s AuthState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// ConversationListRoute is where the gate lands a signed-in user.
const ConversationListRoute = "/conversations"

// AuthGate tracks the sign-in flow. The only legal path is
// unauthenticated -> authenticating -> authenticated; reaching the final
// state yields the navigation target.
type AuthGate struct {
	state AuthState
}

func NewAuthGate() *AuthGate {
	return &AuthGate{state: Unauthenticated}
}

func (g *AuthGate) State() AuthState {
	return g.state
}

// Begin moves the gate into the authenticating state.
func (g *AuthGate) Begin() error {
	if g.state != Unauthenticated {
		return fmt.Errorf("cannot begin authentication from %s", g.state)
	}
	g.state = Authenticating
	return nil
}

// Complete finishes the flow and returns the route to navigate to.
func (g *AuthGate) Complete() (string, error) {
	if g.state != Authenticating {
		return "", fmt.Errorf("cannot complete authentication from %s", g.state)
	}
	g.state = Authenticated
	return ConversationListRoute, nil
}

// Fail resets the gate after a rejected sign-in attempt.
func (g *AuthGate) Fail() {
	g.state = Unauthenticated
}

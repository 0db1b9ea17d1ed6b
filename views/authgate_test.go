package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthGateHappyPath(t *testing.T) {
	gate := NewAuthGate()
	assert.Equal(t, Unauthenticated, gate.State())

	require.NoError(t, gate.Begin())
	assert.Equal(t, Authenticating, gate.State())

	route, err := gate.Complete()
	require.NoError(t, err)
	assert.Equal(t, "/conversations", route)
	assert.Equal(t, Authenticated, gate.State())
}

func TestAuthGateRejectsOutOfOrderTransitions(t *testing.T) {
	gate := NewAuthGate()

	// Completing before beginning is illegal.
	_, err := gate.Complete()
	assert.Error(t, err)

	require.NoError(t, gate.Begin())
	assert.Error(t, gate.Begin())

	_, err = gate.Complete()
	require.NoError(t, err)
	assert.Error(t, gate.Begin())
}

func TestAuthGateFailResets(t *testing.T) {
	gate := NewAuthGate()
	require.NoError(t, gate.Begin())

	gate.Fail()
	assert.Equal(t, Unauthenticated, gate.State())

	// The flow can start over after a failure.
	require.NoError(t, gate.Begin())
}

func TestAuthStateString(t *testing.T) {
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "authenticating", Authenticating.String())
	assert.Equal(t, "authenticated", Authenticated.String())
}

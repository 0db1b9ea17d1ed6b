package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, DirectPairKey(1, 2), DirectPairKey(2, 1))
	assert.Equal(t, "1:2", DirectPairKey(2, 1))
	assert.Equal(t, "3:17", DirectPairKey(17, 3))
}

func TestHasParticipant(t *testing.T) {
	conv := Conversation{
		Participants: []User{
			{Model: Model{ID: 1}},
			{Model: Model{ID: 2}},
		},
	}

	assert.True(t, conv.HasParticipant(1))
	assert.True(t, conv.HasParticipant(2))
	assert.False(t, conv.HasParticipant(3))
}

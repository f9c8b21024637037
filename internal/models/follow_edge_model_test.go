package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFollowEdgeIDDistinguishesPairs(t *testing.T) {
	assert.NotEqual(t, FollowEdgeID("a_b", "c"), FollowEdgeID("a", "b_c"))
	assert.NotEqual(t, FollowEdgeID("a", "b"), FollowEdgeID("b", "a"))
	assert.NotEqual(t, FollowEdgeID("1:a", "b"), FollowEdgeID("1", "a_b"))
	assert.Equal(t, FollowEdgeID("alice", "bob"), FollowEdgeID("alice", "bob"))
	assert.NotContains(t, FollowEdgeID("alice", "bob"), "/")
}

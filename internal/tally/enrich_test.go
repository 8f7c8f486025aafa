package tally

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurusugawa-computer/annowork-cli/client"
)

func TestSnapshot_Lookups(t *testing.T) {
	jobs := []client.Job{{JobID: "j1", JobName: "Labeling"}}
	members := []client.Member{{MemberID: "m1", UserID: "alice", Username: "Alice"}}

	var buf bytes.Buffer
	snap := NewSnapshot(jobs, members, zerolog.New(&buf))

	name := snap.JobName("j1")
	require.NotNil(t, name)
	assert.Equal(t, "Labeling", *name)

	userID, username := snap.MemberNames("m1")
	require.NotNil(t, userID)
	require.NotNil(t, username)
	assert.Equal(t, "alice", *userID)
	assert.Equal(t, "Alice", *username)

	memberID, ok := snap.MemberIDByUserID("alice")
	assert.True(t, ok)
	assert.Equal(t, "m1", memberID)

	assert.Empty(t, buf.String())
}

func TestSnapshot_MissingReferencesWarnAndYieldNil(t *testing.T) {
	var buf bytes.Buffer
	snap := NewSnapshot(nil, nil, zerolog.New(&buf))

	assert.Nil(t, snap.JobName("ghost"))
	userID, username := snap.MemberNames("ghost")
	assert.Nil(t, userID)
	assert.Nil(t, username)

	_, ok := snap.MemberIDByUserID("ghost")
	assert.False(t, ok)

	out := buf.String()
	assert.Contains(t, out, "job not found")
	assert.Contains(t, out, "member not found")
}

func TestSnapshot_LookupIsPure(t *testing.T) {
	jobs := []client.Job{{JobID: "j1", JobName: "Labeling"}}
	snap := NewSnapshot(jobs, nil, zerolog.Nop())

	first := snap.JobName("j1")
	second := snap.JobName("j1")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurusugawa-computer/annowork-cli/client"
)

func annofabLinkedJob(jobID, tree, projectID string) client.Job {
	return client.Job{
		JobID:   jobID,
		JobTree: tree,
		ExternalLinkageInfo: &client.ExternalLinkageInfo{
			URL: "https://annofab.com/projects/" + projectID,
		},
	}
}

func TestParentJobIDsForProjects(t *testing.T) {
	jobs := []client.Job{
		annofabLinkedJob("c1", "ws/p1/c1", "prj1"),
		annofabLinkedJob("c2", "ws/p1/c2", "prj1"),
		annofabLinkedJob("c3", "ws/p2/c3", "prj2"),
		{JobID: "p1", JobTree: "ws/p1"},
	}

	parents := parentJobIDsForProjects(jobs, []string{"prj1"})
	assert.Equal(t, []string{"p1"}, parents)

	parents = parentJobIDsForProjects(jobs, []string{"prj1", "prj2"})
	assert.ElementsMatch(t, []string{"p1", "p2"}, parents)

	assert.Empty(t, parentJobIDsForProjects(jobs, []string{"nope"}))
}

func TestChildJobIDs(t *testing.T) {
	jobs := []client.Job{
		{JobID: "p1", JobTree: "ws/p1"},
		{JobID: "c1", JobTree: "ws/p1/c1"},
		{JobID: "c2", JobTree: "ws/p1/c2"},
		{JobID: "other", JobTree: "ws/p2/other"},
	}

	children := childJobIDs(jobs, []string{"p1"})
	assert.ElementsMatch(t, []string{"c1", "c2"}, children)
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd("test")

	want := []string{"schedule", "expected_working_time", "actual_working_time", "annofab", "my"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		require.True(t, found, "missing subcommand %s", name)
	}
}

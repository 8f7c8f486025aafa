package tally

import (
	"github.com/rs/zerolog"

	"github.com/kurusugawa-computer/annowork-cli/client"
)

// Snapshot is the job/member reference data fetched once per run, used to
// attach human-readable names to aggregate rows. Lookups against a missing
// reference warn and yield nil fields instead of failing: the job or
// member may have been deleted after the historical records were written.
//
// All lookups are pure functions of the snapshot, so enriching the same
// rows twice yields identical output.
type Snapshot struct {
	jobs    map[string]client.Job
	members map[string]client.Member
	log     zerolog.Logger
}

// NewSnapshot indexes the reference lists by id.
func NewSnapshot(jobs []client.Job, members []client.Member, log zerolog.Logger) *Snapshot {
	s := &Snapshot{
		jobs:    make(map[string]client.Job, len(jobs)),
		members: make(map[string]client.Member, len(members)),
		log:     log,
	}
	for _, j := range jobs {
		s.jobs[j.JobID] = j
	}
	for _, m := range members {
		s.members[m.MemberID] = m
	}
	return s
}

// Job returns the job for id, when present.
func (s *Snapshot) Job(jobID string) (client.Job, bool) {
	j, ok := s.jobs[jobID]
	return j, ok
}

// JobName resolves a job id to its name, nil when unknown.
func (s *Snapshot) JobName(jobID string) *string {
	j, ok := s.jobs[jobID]
	if !ok {
		s.log.Warn().Str("job_id", jobID).Msg("job not found in snapshot")
		return nil
	}
	return &j.JobName
}

// Member returns the member for id, when present.
func (s *Snapshot) Member(memberID string) (client.Member, bool) {
	m, ok := s.members[memberID]
	return m, ok
}

// MemberNames resolves a member id to its user id and username, both nil
// when the member is unknown.
func (s *Snapshot) MemberNames(memberID string) (userID, username *string) {
	m, ok := s.members[memberID]
	if !ok {
		s.log.Warn().Str("workspace_member_id", memberID).Msg("member not found in snapshot")
		return nil, nil
	}
	return &m.UserID, &m.Username
}

// MemberIDByUserID maps a user id to its workspace member id; the boolean
// is false when no member carries that user id.
func (s *Snapshot) MemberIDByUserID(userID string) (string, bool) {
	for _, m := range s.members {
		if m.UserID == userID {
			return m.MemberID, true
		}
	}
	return "", false
}

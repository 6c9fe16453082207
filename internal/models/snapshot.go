package models

import "time"

const snapshotSortKey = "STATE#members"

// StateSnapshot is the persisted copy of an organization's members state.
type StateSnapshot struct {
	PK          string    `dynamodbav:"pk"`
	SK          string    `dynamodbav:"sk"`
	Members     []Member  `dynamodbav:"members"`
	ServerError *string   `dynamodbav:"server_error,omitempty"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"`
	TTL         int64     `dynamodbav:"ttl"`
}

// SnapshotKey returns the partition and sort key for an organization.
func SnapshotKey(org string) (pk string, sk string) {
	return "ORG#" + org, snapshotSortKey
}

// NewStateSnapshot builds a snapshot item for org that expires after ttlDays.
func NewStateSnapshot(org string, state MembersState, ttlDays int) StateSnapshot {
	now := time.Now().UTC()
	pk, sk := SnapshotKey(org)
	clone := state.Clone()
	return StateSnapshot{
		PK:          pk,
		SK:          sk,
		Members:     clone.Members,
		ServerError: clone.ServerError,
		UpdatedAt:   now,
		TTL:         now.AddDate(0, 0, ttlDays).Unix(),
	}
}

// State converts the snapshot back into a members state.
func (s StateSnapshot) State() MembersState {
	return MembersState{Members: s.Members, ServerError: s.ServerError}.Clone()
}

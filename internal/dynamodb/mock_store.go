package dynamodb

import (
	"context"

	"github.com/daniloc96/github-members-state/internal/models"
)

// MockStore implements SnapshotStore for testing.
type MockStore struct {
	SaveSnapshotFunc func(ctx context.Context, org string, state models.MembersState) error
	LoadSnapshotFunc func(ctx context.Context, org string) (*models.MembersState, error)

	// Track calls for assertions.
	SavedSnapshots []SaveCall
}

// SaveCall records a call to SaveSnapshot.
type SaveCall struct {
	Org   string
	State models.MembersState
}

func (m *MockStore) SaveSnapshot(ctx context.Context, org string, state models.MembersState) error {
	m.SavedSnapshots = append(m.SavedSnapshots, SaveCall{Org: org, State: state.Clone()})
	if m.SaveSnapshotFunc != nil {
		return m.SaveSnapshotFunc(ctx, org, state)
	}
	return nil
}

func (m *MockStore) LoadSnapshot(ctx context.Context, org string) (*models.MembersState, error) {
	if m.LoadSnapshotFunc != nil {
		return m.LoadSnapshotFunc(ctx, org)
	}
	for i := len(m.SavedSnapshots) - 1; i >= 0; i-- {
		if m.SavedSnapshots[i].Org == org {
			state := m.SavedSnapshots[i].State.Clone()
			return &state, nil
		}
	}
	return nil, nil
}

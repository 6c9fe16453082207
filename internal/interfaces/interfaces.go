package interfaces

import (
	"context"

	"github.com/daniloc96/github-members-state/internal/models"
)

// MembersClient lists members of a GitHub organization.
type MembersClient interface {
	ListMembers(ctx context.Context, org string, publicOnly bool) ([]models.Member, error)
}

// Dispatcher submits actions to the state container.
type Dispatcher interface {
	Dispatch(action models.Action) models.MembersState
}

// StateReader exposes the current members state.
type StateReader interface {
	State() models.MembersState
}

// Fetcher runs a members fetch against the store.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.FetchResult, error)
}

// SnapshotStore persists the last members state per organization.
type SnapshotStore interface {
	// SaveSnapshot replaces the stored state for org.
	SaveSnapshot(ctx context.Context, org string, state models.MembersState) error

	// LoadSnapshot returns the stored state for org, or nil when none exists.
	LoadSnapshot(ctx context.Context, org string) (*models.MembersState, error)
}

// MetricsEmitter publishes fetch outcome metrics.
type MetricsEmitter interface {
	EmitFetch(ctx context.Context, result models.FetchResult) error
}

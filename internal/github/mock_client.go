package github

import (
	"context"

	"github.com/daniloc96/github-members-state/internal/models"
)

// MockClient is a simple mock implementation of the GitHub client.
type MockClient struct {
	ListMembersFunc func(ctx context.Context, org string, publicOnly bool) ([]models.Member, error)
}

func (m *MockClient) ListMembers(ctx context.Context, org string, publicOnly bool) ([]models.Member, error) {
	if m.ListMembersFunc == nil {
		return nil, nil
	}
	return m.ListMembersFunc(ctx, org, publicOnly)
}

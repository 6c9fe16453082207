// Package fetch loads organization members from GitHub and dispatches the
// outcome to the members store.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/daniloc96/github-members-state/internal/config"
	"github.com/daniloc96/github-members-state/internal/github"
	"github.com/daniloc96/github-members-state/internal/interfaces"
	"github.com/daniloc96/github-members-state/internal/log"
	"github.com/daniloc96/github-members-state/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrFetchInProgress is returned when Fetch is called while another fetch runs.
var ErrFetchInProgress = errors.New("members fetch already in progress")

// Fetcher runs members fetches against a store.
type Fetcher struct {
	client     interfaces.MembersClient
	dispatcher interfaces.Dispatcher
	snapshots  interfaces.SnapshotStore
	metrics    interfaces.MetricsEmitter
	cfg        *config.Config
	now        func() time.Time

	mu      sync.Mutex
	running bool
}

// NewFetcher creates a fetcher.
func NewFetcher(client interfaces.MembersClient, dispatcher interfaces.Dispatcher, cfg *config.Config) *Fetcher {
	return &Fetcher{client: client, dispatcher: dispatcher, cfg: cfg, now: time.Now}
}

// SetSnapshotStore enables persisting the state after each fetch. If nil, snapshots are skipped.
func (f *Fetcher) SetSnapshotStore(store interfaces.SnapshotStore) {
	f.snapshots = store
}

// SetMetricsEmitter enables publishing fetch metrics. If nil, metrics are skipped.
func (f *Fetcher) SetMetricsEmitter(emitter interfaces.MetricsEmitter) {
	f.metrics = emitter
}

// Fetch lists the configured organization's members and dispatches either
// a success or an error action. A failed listing is reported through the
// state and the result, not as a returned error.
func (f *Fetcher) Fetch(ctx context.Context) (*models.FetchResult, error) {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil, ErrFetchInProgress
	}
	f.running = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.running = false
		f.mu.Unlock()
	}()

	org := f.cfg.GitHub.Organization
	logger := log.Component("fetch").WithField("org", org)
	result := &models.FetchResult{Organization: org, StartTime: f.now()}

	logger.WithField("public_only", f.cfg.GitHub.PublicOnly).Debug("fetching organization members")
	members, err := f.client.ListMembers(ctx, org, f.cfg.GitHub.PublicOnly)

	var state models.MembersState
	if err != nil {
		msg := github.HumanError(err)
		state = f.dispatcher.Dispatch(models.FetchMembersError{Message: msg})
		result.Error = msg
		logger.WithError(err).WithField("stale_members", len(state.Members)).Warn("members fetch failed")
	} else {
		state = f.dispatcher.Dispatch(models.FetchMembersSuccess{Members: members})
		result.Succeeded = true
		result.MemberCount = len(state.Members)
		logger.WithField("members", result.MemberCount).Info("members fetched")
	}

	result.EndTime = f.now()
	result.DurationMs = result.EndTime.Sub(result.StartTime).Milliseconds()
	result.State = &state

	// Persistence and metrics run on a context that outlives a cancelled fetch.
	sideCtx := context.WithoutCancel(ctx)
	if f.snapshots != nil {
		if err := f.snapshots.SaveSnapshot(sideCtx, org, state); err != nil {
			logger.WithError(err).Warn("could not persist members snapshot")
			result.Warnings = append(result.Warnings, fmt.Sprintf("snapshot: %v", err))
		}
	}
	if f.metrics != nil {
		if err := f.metrics.EmitFetch(sideCtx, *result); err != nil {
			logger.WithError(err).Warn("could not emit fetch metrics")
			result.Warnings = append(result.Warnings, fmt.Sprintf("metrics: %v", err))
		}
	}

	logger.WithFields(logrus.Fields{
		"succeeded":   result.Succeeded,
		"duration_ms": result.DurationMs,
	}).Debug(result.String())

	return result, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/daniloc96/github-members-state/cmd"
	"github.com/daniloc96/github-members-state/internal/config"
	snapshots "github.com/daniloc96/github-members-state/internal/dynamodb"
	"github.com/daniloc96/github-members-state/internal/fetch"
	"github.com/daniloc96/github-members-state/internal/github"
	"github.com/daniloc96/github-members-state/internal/members"
	"github.com/daniloc96/github-members-state/internal/metrics"
	"github.com/daniloc96/github-members-state/internal/models"
	"github.com/daniloc96/github-members-state/internal/secrets"
	"github.com/daniloc96/github-members-state/internal/server"
	"github.com/daniloc96/github-members-state/internal/store"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cmd.SetLambdaHandler(HandleRequest)
	cmd.SetRunFetch(runFetch)
	cmd.SetRunServe(runServe)
	cmd.Execute()
}

// HandleRequest is the AWS Lambda handler.
func HandleRequest(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error) {
	if event.Source != "" || event.DetailType != "" {
		if !isScheduledEvent(event) {
			return models.NewErrorResponse(fmt.Errorf("unsupported event source")), nil
		}
	}
	cfg, err := config.Load("")
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	cfg.GitHub.Organization = event.OrganizationOr(cfg.GitHub.Organization)
	if err := config.Validate(cfg); err != nil {
		return models.NewErrorResponse(err), nil
	}

	result, err := runFetch(ctx, cfg)
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	return models.NewFetchResponse(result), nil
}

func isScheduledEvent(event models.LambdaEvent) bool {
	return event.Source == "aws.events" && event.DetailType == "Scheduled Event"
}

// app bundles the store and the fetcher that feeds it.
type app struct {
	store   *store.Store
	fetcher *fetch.Fetcher
}

var newApp = func(ctx context.Context, cfg *config.Config) (*app, error) {
	token, err := secrets.ResolveGitHubToken(cfg.GitHub)
	if err != nil {
		return nil, err
	}
	githubClient := github.NewClient(token, github.WithPerPage(cfg.GitHub.PerPage))

	var seed *models.MembersState
	var snapshotStore *snapshots.Store
	if cfg.DynamoDB.Enabled {
		snapshotStore, err = snapshots.NewStore(ctx, cfg.DynamoDB)
		if err != nil {
			logrus.WithError(err).Warn("⚠ DynamoDB store init failed, snapshots disabled")
			snapshotStore = nil
		} else {
			seed, err = snapshotStore.LoadSnapshot(ctx, cfg.GitHub.Organization)
			if err != nil {
				logrus.WithError(err).Warn("⚠ Could not load members snapshot, starting empty")
				seed = nil
			}
			logrus.WithFields(logrus.Fields{
				"table":    cfg.DynamoDB.TableName,
				"region":   cfg.DynamoDB.Region,
				"restored": seed != nil,
			}).Info("✅ Members snapshots enabled (DynamoDB)")
		}
	}

	s := store.New(members.Reduce, seed)
	fetcher := fetch.NewFetcher(githubClient, s, cfg)
	if snapshotStore != nil {
		fetcher.SetSnapshotStore(snapshotStore)
	}

	if cfg.Metrics.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Metrics.Region))
		if err != nil {
			logrus.WithError(err).Warn("⚠ AWS config load failed, metrics disabled")
		} else {
			fetcher.SetMetricsEmitter(metrics.NewEmitter(awsCfg, cfg.Metrics.Namespace))
		}
	}

	return &app{store: s, fetcher: fetcher}, nil
}

var runFetch = func(ctx context.Context, cfg *config.Config) (*models.FetchResult, error) {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return a.fetcher.Fetch(ctx)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	a.store.Subscribe(func(state models.MembersState) {
		fields := logrus.Fields{"members": len(state.Members)}
		if state.ServerError != nil {
			fields["server_error"] = *state.ServerError
		}
		logrus.WithFields(fields).Debug("members state updated")
	})

	if _, err := a.fetcher.Fetch(ctx); err != nil && !errors.Is(err, fetch.ErrFetchInProgress) {
		return err
	}

	srv := server.New(a.store, a.fetcher)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/daniloc96/github-members-state/internal/config"
	"github.com/daniloc96/github-members-state/internal/models"
)

// API is the subset of the DynamoDB client used by Store.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Store implements the SnapshotStore interface using DynamoDB.
type Store struct {
	client    API
	tableName string
	ttlDays   int
}

// NewStore creates a new DynamoDB-backed SnapshotStore.
func NewStore(ctx context.Context, cfg config.DynamoDBConfig) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.Endpoint != "" {
		// Local development: use static credentials and custom endpoint.
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var clientOpts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return newStore(dynamodb.NewFromConfig(awsCfg, clientOpts...), cfg.TableName, cfg.TTLDays), nil
}

func newStore(client API, tableName string, ttlDays int) *Store {
	if ttlDays <= 0 {
		ttlDays = 30
	}
	return &Store{client: client, tableName: tableName, ttlDays: ttlDays}
}

// SaveSnapshot stores state as the latest snapshot for org.
func (s *Store) SaveSnapshot(ctx context.Context, org string, state models.MembersState) error {
	item, err := attributevalue.MarshalMap(models.NewStateSnapshot(org, state, s.ttlDays))
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot returns the latest snapshot for org, or nil when none is stored.
func (s *Store) LoadSnapshot(ctx context.Context, org string) (*models.MembersState, error) {
	pk, sk := models.SnapshotKey(org)
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: pk},
			"sk": &types.AttributeValueMemberS{Value: sk},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var snapshot models.StateSnapshot
	if err := attributevalue.UnmarshalMap(result.Item, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}

	state := snapshot.State()
	return &state, nil
}

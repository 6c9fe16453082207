package metrics

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/daniloc96/github-members-state/internal/models"
)

// CloudWatchAPI defines the CloudWatch client interface used for metrics.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Emitter sends fetch metrics to CloudWatch.
type Emitter struct {
	client    CloudWatchAPI
	namespace string
}

// NewEmitter creates a CloudWatch metrics emitter.
func NewEmitter(cfg aws.Config, namespace string) *Emitter {
	return &Emitter{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
	}
}

// EmitFetch publishes the outcome of one members fetch, dimensioned by organization.
func (e *Emitter) EmitFetch(ctx context.Context, result models.FetchResult) error {
	succeeded, failed := 0, 0
	if result.Succeeded {
		succeeded = 1
	} else {
		failed = 1
	}

	dims := []types.Dimension{{
		Name:  aws.String("Organization"),
		Value: aws.String(result.Organization),
	}}
	metrics := []types.MetricDatum{
		metricDatum("MembersFetched", float64(result.MemberCount), types.StandardUnitCount, dims),
		metricDatum("FetchSucceeded", float64(succeeded), types.StandardUnitCount, dims),
		metricDatum("FetchFailed", float64(failed), types.StandardUnitCount, dims),
		metricDatum("FetchDuration", float64(result.DurationMs), types.StandardUnitMilliseconds, dims),
	}

	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(e.namespace),
		MetricData: metrics,
	})
	return err
}

func metricDatum(name string, value float64, unit types.StandardUnit, dims []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Unit:       unit,
		Value:      aws.Float64(value),
		Dimensions: dims,
	}
}

// internal/common/aws/sns.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSService is the slice of the SNS API SMS notifications send through.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// NewSNS builds the concrete SNS client from a resolved AWS config.
func NewSNS(cfg awssdk.Config) SNSService {
	return sns.NewFromConfig(cfg)
}

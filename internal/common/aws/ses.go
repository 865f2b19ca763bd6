// internal/common/aws/ses.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// SESService is the slice of the SES API match notifications send through.
// Handlers hold this interface so tests can substitute a capturing mock.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// NewSES builds the concrete SES client from a resolved AWS config.
func NewSES(cfg awssdk.Config) SESService {
	return ses.NewFromConfig(cfg)
}

// LoadConfig resolves the default AWS config pinned to one region.
func LoadConfig(ctx context.Context, region string) (awssdk.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}

package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	appconfig "github.com/wolfman30/zentix-relay/internal/config"
)

// LoadAWSConfig centralizes AWS SDK initialization so the HTTP server and the
// Lambda entrypoint share the same Bedrock/SES wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}
	return awsCfg, nil
}

// Loader defers LoadAWSConfig until a component actually needs AWS.
func Loader(cfg *appconfig.Config) func(context.Context) (aws.Config, error) {
	return func(ctx context.Context) (aws.Config, error) {
		return LoadAWSConfig(ctx, cfg)
	}
}

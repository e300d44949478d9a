package credentials

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
)

// Secret store and environment keys for static credentials.
const (
	KeyAccessKeyID     = "AWS_ACCESS_KEY_ID"
	KeySecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	KeySessionToken    = "AWS_SESSION_TOKEN"
)

// Source is one strategy for obtaining an AWS configuration. A failed
// attempt returns an error and resolution moves to the next source.
type Source interface {
	Name() string
	Resolve(ctx context.Context) (aws.Config, error)
}

// SecretLookup reads one optional value from the structured secret store.
type SecretLookup interface {
	Lookup(key string) (string, bool)
}

// SecretsSource builds static credentials from the secret store. The
// session token is optional; the access key and secret key are not.
type SecretsSource struct {
	store  SecretLookup
	region string
}

// NewSecretsSource creates a source backed by the given store.
func NewSecretsSource(store SecretLookup, region string) *SecretsSource {
	return &SecretsSource{store: store, region: region}
}

func (s *SecretsSource) Name() string { return "secrets" }

func (s *SecretsSource) Resolve(_ context.Context) (aws.Config, error) {
	if s.store == nil {
		return aws.Config{}, fmt.Errorf("no secret store configured")
	}
	accessKey, ok := s.store.Lookup(KeyAccessKeyID)
	if !ok || accessKey == "" {
		return aws.Config{}, fmt.Errorf("%s not in secret store", KeyAccessKeyID)
	}
	secretKey, ok := s.store.Lookup(KeySecretAccessKey)
	if !ok || secretKey == "" {
		return aws.Config{}, fmt.Errorf("%s not in secret store", KeySecretAccessKey)
	}
	token, _ := s.store.Lookup(KeySessionToken)

	return staticConfig(s.region, accessKey, secretKey, token), nil
}

// EnvSource builds static credentials from process environment variables.
type EnvSource struct {
	getenv func(string) string
	region string
}

// NewEnvSource creates a source reading the process environment.
func NewEnvSource(region string) *EnvSource {
	return &EnvSource{getenv: os.Getenv, region: region}
}

func (s *EnvSource) Name() string { return "env" }

func (s *EnvSource) Resolve(_ context.Context) (aws.Config, error) {
	accessKey := s.getenv(KeyAccessKeyID)
	if accessKey == "" {
		return aws.Config{}, fmt.Errorf("%s not set", KeyAccessKeyID)
	}
	secretKey := s.getenv(KeySecretAccessKey)
	if secretKey == "" {
		return aws.Config{}, fmt.Errorf("%s not set", KeySecretAccessKey)
	}

	return staticConfig(s.region, accessKey, secretKey, s.getenv(KeySessionToken)), nil
}

func staticConfig(region, accessKey, secretKey, token string) aws.Config {
	return aws.Config{
		Region:      region,
		Credentials: awscreds.NewStaticCredentialsProvider(accessKey, secretKey, token),
	}
}

// ProbeFunc validates a candidate configuration with a harmless call.
type ProbeFunc func(ctx context.Context, cfg aws.Config) error

// BedrockProbe lists at most one agent to prove the credentials work.
func BedrockProbe(ctx context.Context, cfg aws.Config) error {
	client := bedrockagent.NewFromConfig(cfg)
	_, err := client.ListAgents(ctx, &bedrockagent.ListAgentsInput{
		MaxResults: aws.Int32(1),
	})
	return err
}

// DefaultChainSource uses the SDK's ambient credential discovery
// (execution role, shared credentials file, IMDS). Because the chain
// succeeds even with nothing attached, the result is validated with a
// probe call before it is accepted.
type DefaultChainSource struct {
	region string
	load   func(ctx context.Context, region string) (aws.Config, error)
	probe  ProbeFunc
}

// NewDefaultChainSource creates the ambient-discovery source.
func NewDefaultChainSource(region string) *DefaultChainSource {
	return &DefaultChainSource{
		region: region,
		load: func(ctx context.Context, region string) (aws.Config, error) {
			return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		},
		probe: BedrockProbe,
	}
}

func (s *DefaultChainSource) Name() string { return "default" }

func (s *DefaultChainSource) Resolve(ctx context.Context) (aws.Config, error) {
	cfg, err := s.load(ctx, s.region)
	if err != nil {
		return aws.Config{}, fmt.Errorf("default chain: %w", err)
	}
	if err := s.probe(ctx, cfg); err != nil {
		return aws.Config{}, fmt.Errorf("probe call failed: %w", err)
	}
	return cfg, nil
}

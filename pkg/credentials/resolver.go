package credentials

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
)

// ErrNoCredentials means every source failed or was absent.
var ErrNoCredentials = errors.New("no aws credentials available")

// Resolver tries an ordered list of sources and returns the first AWS
// configuration one of them yields. Failed attempts are logged as
// warnings and skipped; the order and the short-circuit are the whole
// contract. Resolution runs once per explicit initialize or retry action,
// never automatically.
type Resolver struct {
	sources []Source
	logger  zerolog.Logger

	// Observe, when set, records each attempt as (source, status) with
	// status "ok" or "failed".
	Observe func(source, status string)
}

// NewResolver creates a resolver over the given sources in order.
func NewResolver(logger zerolog.Logger, sources ...Source) *Resolver {
	return &Resolver{
		sources: sources,
		logger:  logger.With().Str("component", "credentials").Logger(),
	}
}

// DefaultSources returns the production source order: secret store,
// process environment, ambient default chain.
func DefaultSources(store SecretLookup, region string) []Source {
	return []Source{
		NewSecretsSource(store, region),
		NewEnvSource(region),
		NewDefaultChainSource(region),
	}
}

// Resolve returns the first configuration a source yields, together with
// the winning source's name. On exhaustion it returns ErrNoCredentials.
func (r *Resolver) Resolve(ctx context.Context) (aws.Config, string, error) {
	for _, source := range r.sources {
		cfg, err := source.Resolve(ctx)
		if err != nil {
			r.observe(source.Name(), "failed")
			r.logger.Warn().
				Err(err).
				Str("source", source.Name()).
				Msg("Credential source failed")
			continue
		}
		r.observe(source.Name(), "ok")
		r.logger.Info().
			Str("source", source.Name()).
			Msg("AWS credentials resolved")
		return cfg, source.Name(), nil
	}
	return aws.Config{}, "", ErrNoCredentials
}

func (r *Resolver) observe(source, status string) {
	if r.Observe != nil {
		r.Observe(source, status)
	}
}

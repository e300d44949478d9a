package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name   string
	cfg    aws.Config
	err    error
	called bool
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Resolve(_ context.Context) (aws.Config, error) {
	s.called = true
	if s.err != nil {
		return aws.Config{}, s.err
	}
	return s.cfg, nil
}

func TestResolverFirstSourceWins(t *testing.T) {
	first := &fakeSource{name: "secrets", cfg: aws.Config{Region: "us-east-1"}}
	second := &fakeSource{name: "env"}
	r := NewResolver(zerolog.Nop(), first, second)

	cfg, source, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secrets", source)
	assert.Equal(t, "us-east-1", cfg.Region)

	// Short-circuit: later sources are never attempted.
	assert.False(t, second.called)
}

func TestResolverFallsThroughInOrder(t *testing.T) {
	first := &fakeSource{name: "secrets", err: errors.New("not in secret store")}
	second := &fakeSource{name: "env", err: errors.New("not set")}
	third := &fakeSource{name: "default", cfg: aws.Config{Region: "us-east-1"}}
	r := NewResolver(zerolog.Nop(), first, second, third)

	_, source, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "default", source)
	assert.True(t, first.called)
	assert.True(t, second.called)
}

func TestResolverExhaustion(t *testing.T) {
	r := NewResolver(zerolog.Nop(),
		&fakeSource{name: "secrets", err: errors.New("missing")},
		&fakeSource{name: "env", err: errors.New("missing")},
		&fakeSource{name: "default", err: errors.New("probe call failed")},
	)

	_, _, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestResolverObserve(t *testing.T) {
	r := NewResolver(zerolog.Nop(),
		&fakeSource{name: "secrets", err: errors.New("missing")},
		&fakeSource{name: "env", cfg: aws.Config{}},
	)

	var seen [][2]string
	r.Observe = func(source, status string) {
		seen = append(seen, [2]string{source, status})
	}

	_, _, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"secrets", "failed"}, {"env", "ok"}}, seen)
}

type fakeLookup map[string]string

func (f fakeLookup) Lookup(key string) (string, bool) {
	value, ok := f[key]
	return value, ok
}

func TestSecretsSource(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		source := NewSecretsSource(fakeLookup{
			KeyAccessKeyID:     "AKID",
			KeySecretAccessKey: "secret",
			KeySessionToken:    "token",
		}, "us-east-1")

		cfg, err := source.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", cfg.Region)

		creds, err := cfg.Credentials.Retrieve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "AKID", creds.AccessKeyID)
		assert.Equal(t, "secret", creds.SecretAccessKey)
		assert.Equal(t, "token", creds.SessionToken)
	})

	t.Run("session token optional", func(t *testing.T) {
		source := NewSecretsSource(fakeLookup{
			KeyAccessKeyID:     "AKID",
			KeySecretAccessKey: "secret",
		}, "us-east-1")

		cfg, err := source.Resolve(context.Background())
		require.NoError(t, err)

		creds, err := cfg.Credentials.Retrieve(context.Background())
		require.NoError(t, err)
		assert.Empty(t, creds.SessionToken)
	})

	t.Run("access key missing", func(t *testing.T) {
		source := NewSecretsSource(fakeLookup{KeySecretAccessKey: "secret"}, "us-east-1")
		_, err := source.Resolve(context.Background())
		assert.Error(t, err)
	})

	t.Run("secret key missing", func(t *testing.T) {
		source := NewSecretsSource(fakeLookup{KeyAccessKeyID: "AKID"}, "us-east-1")
		_, err := source.Resolve(context.Background())
		assert.Error(t, err)
	})
}

func TestEnvSource(t *testing.T) {
	newSource := func(env map[string]string) *EnvSource {
		source := NewEnvSource("us-east-1")
		source.getenv = func(key string) string { return env[key] }
		return source
	}

	t.Run("complete", func(t *testing.T) {
		source := newSource(map[string]string{
			KeyAccessKeyID:     "AKID",
			KeySecretAccessKey: "secret",
		})

		cfg, err := source.Resolve(context.Background())
		require.NoError(t, err)

		creds, err := cfg.Credentials.Retrieve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "AKID", creds.AccessKeyID)
	})

	t.Run("unset", func(t *testing.T) {
		source := newSource(map[string]string{})
		_, err := source.Resolve(context.Background())
		assert.Error(t, err)
	})
}

func TestDefaultChainSourceProbe(t *testing.T) {
	t.Run("probe passes", func(t *testing.T) {
		source := NewDefaultChainSource("us-east-1")
		source.load = func(_ context.Context, region string) (aws.Config, error) {
			return aws.Config{Region: region}, nil
		}
		source.probe = func(_ context.Context, _ aws.Config) error { return nil }

		cfg, err := source.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", cfg.Region)
	})

	t.Run("probe fails", func(t *testing.T) {
		source := NewDefaultChainSource("us-east-1")
		source.load = func(_ context.Context, region string) (aws.Config, error) {
			return aws.Config{Region: region}, nil
		}
		source.probe = func(_ context.Context, _ aws.Config) error {
			return errors.New("AccessDeniedException")
		}

		_, err := source.Resolve(context.Background())
		assert.Error(t, err)
	})
}

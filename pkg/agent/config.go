package agent

import (
	"os"

	"github.com/rs/zerolog"
)

// Secret store keys for the agent identifiers.
const (
	KeyAgentID      = "AGENT_ID"
	KeyAgentAliasID = "AGENT_ALIAS_ID"
)

// SecretGetter reads one value from the structured secret store.
type SecretGetter interface {
	Get(key string) (string, error)
}

// ConfigProvider resolves the agent identifiers from the secret store,
// falling back to process environment variables. Each source is
// all-or-nothing: both identifiers must come from the same source, and a
// store failure moves resolution entirely to the environment.
type ConfigProvider struct {
	secrets SecretGetter
	getenv  func(string) string
	logger  zerolog.Logger
}

// NewConfigProvider creates a provider backed by the given secret store.
// A nil store skips straight to the environment.
func NewConfigProvider(secrets SecretGetter, logger zerolog.Logger) *ConfigProvider {
	return &ConfigProvider{
		secrets: secrets,
		getenv:  os.Getenv,
		logger:  logger.With().Str("component", "agent-config").Logger(),
	}
}

// Resolve returns the agent configuration and whether both identifiers
// were found.
func (p *ConfigProvider) Resolve() (Config, bool) {
	if cfg, ok := p.fromSecrets(); ok {
		return cfg, true
	}

	cfg := Config{
		AgentID:      p.getenv(KeyAgentID),
		AgentAliasID: p.getenv(KeyAgentAliasID),
	}
	if !cfg.Complete() {
		return Config{}, false
	}
	return cfg, true
}

func (p *ConfigProvider) fromSecrets() (Config, bool) {
	if p.secrets == nil {
		return Config{}, false
	}

	agentID, err := p.secrets.Get(KeyAgentID)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Agent config not in secret store")
		return Config{}, false
	}
	aliasID, err := p.secrets.Get(KeyAgentAliasID)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Agent alias not in secret store")
		return Config{}, false
	}

	cfg := Config{AgentID: agentID, AgentAliasID: aliasID}
	if !cfg.Complete() {
		return Config{}, false
	}
	return cfg, true
}

package secrets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecrets(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestStoreGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.toml")
	writeSecrets(t, path, `
AWS_ACCESS_KEY_ID = "AKID"
AWS_SECRET_ACCESS_KEY = "shhh"
AGENT_ID = "agent-1"
`)

	store := Open(path, zerolog.Nop())
	defer store.Close()

	value, err := store.Get("AWS_ACCESS_KEY_ID")
	require.NoError(t, err)
	assert.Equal(t, "AKID", value)

	_, err = store.Get("AWS_SESSION_TOKEN")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.toml")

	store := Open(path, zerolog.Nop())
	defer store.Close()

	assert.False(t, store.Loaded())

	_, err := store.Get("AWS_ACCESS_KEY_ID")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestStoreLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.toml")
	writeSecrets(t, path, `AGENT_ID = "agent-1"`)

	store := Open(path, zerolog.Nop())
	defer store.Close()

	value, ok := store.Lookup("AGENT_ID")
	assert.True(t, ok)
	assert.Equal(t, "agent-1", value)

	_, ok = store.Lookup("AGENT_ALIAS_ID")
	assert.False(t, ok)
}

func TestStoreHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.toml")
	writeSecrets(t, path, `AGENT_ID = "before"`)

	store := Open(path, zerolog.Nop())
	defer store.Close()
	require.NoError(t, store.Watch())

	writeSecrets(t, path, `AGENT_ID = "after"`)

	assert.Eventually(t, func() bool {
		value, _ := store.Lookup("AGENT_ID")
		return value == "after"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestStorePicksUpCreatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.toml")

	store := Open(path, zerolog.Nop())
	defer store.Close()
	require.NoError(t, store.Watch())
	require.False(t, store.Loaded())

	writeSecrets(t, path, `AGENT_ID = "created"`)

	assert.Eventually(t, func() bool {
		return store.Loaded()
	}, 3*time.Second, 50*time.Millisecond)
}

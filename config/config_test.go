package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SMASH_CASH_STORE_URL", "")
	os.Unsetenv("SMASH_CASH_STORE_URL")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "bolt://smash-cash.db", cfg.StoreURL)
	assert.Equal(t, "localhost:8080", cfg.APIAddr)
	assert.Equal(t, 5*time.Minute, cfg.SignatureWindow)
	assert.True(t, cfg.OTelEnabled)
}

func TestLoadDotenv(t *testing.T) {
	t.Setenv("SMASH_CASH_API_ADDR", "")
	os.Unsetenv("SMASH_CASH_API_ADDR")
	t.Setenv("SMASH_CASH_PROGRAM", "from-env")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SMASH_CASH_API_ADDR=:9999\nSMASH_CASH_PROGRAM=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SMASH_CASH_API_ADDR") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.APIAddr)
	assert.Equal(t, "from-env", cfg.Program, "environment must win over the file")
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("SMASH_CASH_SIGNATURE_WINDOW", "soon")
	var cfg Config
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")

	cause := errors.Cause(err)
	assert.NotEqual(t, err, cause)
	assert.NotContains(t, cause.Error(), "parse env:")
	assert.Contains(t, fmt.Sprintf("%+v", err), "config.ParseEnv", "wrapped errors carry a stack trace")
}

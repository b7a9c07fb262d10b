package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  listenAddr: ":9090"
mongo:
  connect: "mongodb://localhost:27017"
  database: "pushrelay_test"
fcm:
  credentialsFile: "creds.json"
`), 0o644))
	c, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.GetApi().ListenAddr)
	assert.Equal(t, "mongodb://localhost:27017", c.GetMongo().Connect)
	assert.Equal(t, "pushrelay_test", c.GetMongo().Database)
	assert.Equal(t, "creds.json", c.GetFCM().CredentialsFile)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MONGO_CONNECT", "mongodb://db:27017")
	c := NewFromEnv()
	assert.Equal(t, ":9999", c.GetApi().ListenAddr)
	assert.Equal(t, "mongodb://db:27017", c.GetMongo().Connect)
	assert.Equal(t, "pushrelay", c.GetMongo().Database)
	// unset fcm credentials select degraded mode, not an error
	assert.Empty(t, c.GetFCM().CredentialsFile)
}

func TestNewFromFile_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	c, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.GetApi().ListenAddr)
}

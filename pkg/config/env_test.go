package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Chdir(t.TempDir())

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Auth.Jwt.Secret)
	assert.Zero(t, cfg.Auth.Jwt.Expiry)
	assert.Equal(t, "mock", cfg.Media.Driver)
	assert.Equal(t, "cinema-online", cfg.Media.RootFolder)
	assert.Equal(t, int64(10_000_000), cfg.Upload.MaxSize)
	assert.Equal(t, []string{"jpg", "jpeg", "png"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.False(t, cfg.Transaction.LockTerminal)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "AUTH_JWT_SECRET=file-secret\nAUTH_JWT_EXPIRY=2h\nMEDIA_DRIVER=gcs\nMEDIA_GCS_BUCKET=posters\nTRANSACTION_LOCK_TERMINAL=true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(content), 0o600))
	t.Chdir(dir)
	for _, key := range []string{"AUTH_JWT_SECRET", "AUTH_JWT_EXPIRY", "MEDIA_DRIVER", "MEDIA_GCS_BUCKET", "TRANSACTION_LOCK_TERMINAL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(".env.test")
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.Auth.Jwt.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.Jwt.Expiry)
	assert.Equal(t, "gcs", cfg.Media.Driver)
	assert.Equal(t, "posters", cfg.Media.GCS.Bucket)
	assert.True(t, cfg.Transaction.LockTerminal)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_JWT_SECRET"))
	t.Chdir(t.TempDir())

	_, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestFindEnvFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env.sample"), []byte("X=1\n"), 0o600))

	found, err := FindEnvFile(".env.sample", nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".env.sample"), found)

	_, err = FindEnvFile(".env.missing", nested)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindEnvFile_StopsAtModuleRoot(t *testing.T) {
	root := t.TempDir()
	module := filepath.Join(root, "svc")
	nested := filepath.Join(module, "cmd", "server")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(module, "go.mod"), []byte("module svc\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("X=1\n"), 0o600))

	_, err := FindEnvFile("", nested)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(module, ".env"), []byte("X=2\n"), 0o600))
	found, err := FindEnvFile("", nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(module, ".env"), found)
}

func TestFindEnvFile_Absolute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prod.env")
	require.NoError(t, os.WriteFile(path, []byte("X=1\n"), 0o600))

	found, err := FindEnvFile(path, "/")
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = FindEnvFile(path+".missing", "/")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "", maskValue(""))
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "po****5432", maskValue("postgres://localhost:5432"))
}

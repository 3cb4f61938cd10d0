package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opener func(t *testing.T, path string) Store

func backends() map[string]opener {
	return map[string]opener{
		BackendFile: func(t *testing.T, path string) Store {
			return NewFileStore(path)
		},
		BackendSQLite: func(t *testing.T, path string) Store {
			s, err := OpenSQLite(path)
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFileName(name))
			s := open(t, path)
			defer s.Close()

			_, ok, err := s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			for _, v := range []string{"sk-first", "", "with \"quotes\" and\nnewline", "sk-last"} {
				require.NoError(t, s.Set("api_key", v))
				got, ok, err := s.Get("api_key")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, v, got)
			}
		})
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", DefaultFileName(name))

			first := open(t, path)
			require.NoError(t, first.Set("api_key", "sk-persisted"))
			require.NoError(t, first.Set("other", "value"))
			require.NoError(t, first.Close())

			second := open(t, path)
			defer second.Close()

			got, ok, err := second.Get("api_key")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "sk-persisted", got)

			got, ok, err = second.Get("other")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "value", got)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			s := open(t, filepath.Join(t.TempDir(), DefaultFileName(name)))
			defer s.Close()

			require.NoError(t, s.Delete("never-set"))
			require.NoError(t, s.Set("api_key", "sk"))
			require.NoError(t, s.Delete("api_key"))

			_, ok, err := s.Get("api_key")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s := NewFileStore(path)
	require.NoError(t, s.Set("api_key", "sk-secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.Equal(t, path, s.Path())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_key = = broken"), 0600))

	s := NewFileStore(path)
	_, _, err := s.Get("api_key")
	assert.Error(t, err)
	assert.Error(t, s.Set("api_key", "sk"))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", filepath.Join(dir, "a.toml"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(BackendSQLite, filepath.Join(dir, "a.sqlite3"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("registry", filepath.Join(dir, "x"))
	assert.Error(t, err)
}

func TestCredentialStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "settings.toml"))
	creds := NewCredentialStore(store)

	_, ok, err := creds.Get()
	require.NoError(t, err)
	assert.False(t, ok, "credential is absent at first run")

	for _, k := range []string{"sk-abc", "", "  spaced  "} {
		require.NoError(t, creds.Set(k))
		got, ok, err := creds.Get()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}

	raw, ok, err := store.Get(CredentialName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "  spaced  ", raw)

	require.NoError(t, creds.Clear())
	_, ok, err = creds.Get()
	require.NoError(t, err)
	assert.False(t, ok)
}

package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T, dir string) {
	t.Helper()
	old := userHomeDir
	userHomeDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userHomeDir = old })
}

func TestEnsureHomeSubDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	withHome(t, tmp)

	got, err := EnsureHomeSubDir(".odsregistry")
	require.NoError(t, err)

	want := filepath.Join(tmp, ".odsregistry")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureHomeSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	withHome(t, tmp)

	first, err := EnsureHomeSubDir("state")
	require.NoError(t, err)

	second, err := EnsureHomeSubDir("state")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureHomeSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	withHome(t, tmp)

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "state"), []byte("x"), 0o600))

	_, err := EnsureHomeSubDir("state")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWritePrivate_ReadTrimmed_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	got, err := ReadTrimmed(path)
	require.NoError(t, err)
	require.Equal(t, "", got)

	require.NoError(t, WritePrivate(path, []byte("abc\n")))
	require.NoError(t, WritePrivate(path, []byte("def\n")))

	got, err = ReadTrimmed(path)
	require.NoError(t, err)
	require.Equal(t, "def", got)

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")

	require.NoError(t, RemoveIfExists(path))
	require.NoError(t, RemoveIfExists(path))
}

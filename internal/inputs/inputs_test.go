package inputs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte("x"), 0644))
	}
	return paths
}

func TestResolve_FilesKeepArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	paths := touch(t, dir, "c.png", "a.png", "b.png")

	got, err := Resolve(paths, Options{})
	require.NoError(t, err)
	assert.Equal(t, paths, got)
}

func TestResolve_SingleFile(t *testing.T) {
	paths := touch(t, t.TempDir(), "only.png")

	got, err := Resolve(paths, Options{})
	require.NoError(t, err)
	assert.Equal(t, paths, got)
}

func TestResolve_DirectoryLexical(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "frame2.png", "frame10.png", "frame1.png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0755))

	got, err := Resolve([]string{dir}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "frame1.png"),
		filepath.Join(dir, "frame10.png"),
		filepath.Join(dir, "frame2.png"),
	}, got)
}

func TestResolve_DirectoryNatural(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "frame2.png", "frame10.png", "frame1.png")

	got, err := Resolve([]string{dir}, Options{Sort: SortNatural})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "frame1.png"),
		filepath.Join(dir, "frame2.png"),
		filepath.Join(dir, "frame10.png"),
	}, got)
}

func TestResolve_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	paths := touch(t, dir, "a.png", "notes.txt")

	_, err := Resolve(paths, Options{})
	var invalid *InvalidFileError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, paths[1], invalid.Path)

	got, err := Resolve(paths, Options{IgnoreInvalid: true})
	require.NoError(t, err)
	assert.Equal(t, paths[:1], got)
}

func TestResolve_InvalidFileInDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", "readme.md")

	_, err := Resolve([]string{dir}, Options{})
	var invalid *InvalidFileError
	require.ErrorAs(t, err, &invalid)

	got, err := Resolve([]string{dir}, Options{IgnoreInvalid: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.png")}, got)
}

func TestResolve_MixedFilesAndFolders(t *testing.T) {
	dir := t.TempDir()
	paths := touch(t, dir, "a.png")

	_, err := Resolve([]string{paths[0], dir}, Options{})
	var mixed *MixedInputError
	require.ErrorAs(t, err, &mixed)
	assert.Equal(t, dir, mixed.Path)
}

func TestResolve_MissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.png")

	_, err := Resolve([]string{missing}, Options{})
	var miss *MissingPathError
	require.ErrorAs(t, err, &miss)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve_NothingLeft(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.txt")

	_, err := Resolve([]string{dir}, Options{IgnoreInvalid: true})
	assert.ErrorIs(t, err, ErrNoInputs)

	_, err = Resolve([]string{t.TempDir()}, Options{})
	assert.ErrorIs(t, err, ErrNoInputs)
}

func TestIsPNGName(t *testing.T) {
	assert.True(t, IsPNGName("a.png"))
	assert.True(t, IsPNGName("dir/A.PNG"))
	assert.False(t, IsPNGName("a.png.bak"))
	assert.False(t, IsPNGName("png"))
}

func TestParseSortMode(t *testing.T) {
	m, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortLexical, m)

	m, err = ParseSortMode("natural")
	require.NoError(t, err)
	assert.Equal(t, SortNatural, m)

	_, err = ParseSortMode("random")
	assert.Error(t, err)
}

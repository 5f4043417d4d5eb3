package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPathInfo(t *testing.T) {
	dir := t.TempDir()
	full, parent, err := GetPathInfo(filepath.Join(dir, "sub", "..", "a.c"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.c"), full)
	assert.Equal(t, dir, parent)
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	full, src, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, path, full)
	assert.Equal(t, "int x;\n", src)

	bin := filepath.Join(dir, "a.o")
	require.NoError(t, os.WriteFile(bin, []byte{0x7f, 'E', 'L', 'F', 0}, 0o644))
	_, _, err = ReadSource(bin)
	assert.ErrorContains(t, err, "not a text file")

	_, _, err = ReadSource(filepath.Join(dir, "missing.c"))
	assert.Error(t, err)
}

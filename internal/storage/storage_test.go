package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDisk(dir)
	require.NoError(t, err)

	url, err := store.SaveImage("Cover Photo.PNG", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// The file lands on disk under its generated name.
	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/images/")))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestSaveImageRejectsUnknownTypes(t *testing.T) {
	store, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"report.pdf", "script.sh", "noext"} {
		_, err := store.SaveImage(name, strings.NewReader("x"))
		assert.Error(t, err, name)
	}
}

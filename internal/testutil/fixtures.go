package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FarhanLodi/EasyOcrSharp/internal/models"
)

// TessdataDir creates a temp directory populated with empty traineddata files
// for the given language codes, so model availability checks pass without
// real models on disk.
func TessdataDir(t *testing.T, codes ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, code := range codes {
		name, err := models.TraineddataName(code)
		require.NoError(t, err, "language %q must map to a traineddata name", code)
		path := filepath.Join(dir, name+".traineddata")
		require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	}
	return dir
}

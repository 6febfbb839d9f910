package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraineddataName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "eng"},
		{"EN", "eng"},
		{" ar ", "ara"},
		{"ch_sim", "chi_sim"},
		{"hi", "hin"},
	}
	for _, tt := range tests {
		name, err := TraineddataName(tt.code)
		require.NoError(t, err, "code %q", tt.code)
		assert.Equal(t, tt.want, name)
	}
}

func TestTraineddataNameUnknown(t *testing.T) {
	_, err := TraineddataName("xx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestTraineddataNames(t *testing.T) {
	names, err := TraineddataNames([]string{"ja", "en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"jpn", "eng"}, names)

	_, err = TraineddataNames([]string{"en", "nope"})
	assert.Error(t, err)
}

func TestSupportedLanguagesSortedAndComplete(t *testing.T) {
	langs := SupportedLanguages()
	assert.True(t, sortedStrings(langs))
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "ar")
	assert.Contains(t, langs, "ch_tra")
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestGetTessdataDirExplicitOverride(t *testing.T) {
	assert.Equal(t, "/tmp/tessdata", GetTessdataDir("/tmp/tessdata"))
}

func TestGetTessdataDirEnvOverride(t *testing.T) {
	t.Setenv(EnvTessdataDir, "/env/tessdata")
	assert.Equal(t, "/env/tessdata", GetTessdataDir(""))
}

func TestEnsureAvailable(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"eng", "hin"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".traineddata"), []byte("x"), 0o600))
	}

	assert.NoError(t, EnsureAvailable([]string{"en", "hi"}, dir))

	err := EnsureAvailable([]string{"en", "ja"}, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelsUnavailable)
	assert.Contains(t, err.Error(), "jpn.traineddata")

	err = EnsureAvailable([]string{"bogus"}, dir)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

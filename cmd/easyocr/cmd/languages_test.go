package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLanguagesCommandText(t *testing.T) {
	output, err := executeCommand(t, "languages")
	require.NoError(t, err)

	assert.Contains(t, output, "Supported languages")
	assert.Contains(t, output, "en")
	assert.Contains(t, output, "eng")
	assert.Contains(t, output, "ch_sim")
}

func TestLanguagesCommandYAML(t *testing.T) {
	output, err := executeCommand(t, "languages", "--format", "yaml")
	require.NoError(t, err)

	var listing languageListing
	require.NoError(t, yaml.Unmarshal([]byte(output), &listing))
	assert.NotEmpty(t, listing.Languages)

	codes := make([]string, 0, len(listing.Languages))
	for _, e := range listing.Languages {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, "ja")
}

func TestLanguagesCommandPlan(t *testing.T) {
	output, err := executeCommand(t, "languages", "--format", "text", "--plan", "en,hi,ar")
	require.NoError(t, err)

	assert.Contains(t, output, "Planned groups")
	assert.Contains(t, output, "group 1")
	assert.Contains(t, output, "group 2")
	assert.Contains(t, output, "ar, fa, ur, ug, en")
}

func TestLanguagesCommandUnsupportedFormat(t *testing.T) {
	_, err := executeCommand(t, "languages", "--format", "csv")
	assert.Error(t, err)
}

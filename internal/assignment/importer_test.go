package assignment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentItemsCSVHappyPath(t *testing.T) {
	csvData := "reference_text,translation,reference_audio_url\n" +
		"Hello world,Halo dunia,https://audio/1\n" +
		"Good morning,,\n"

	result, err := ParseContentItemsCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailedCount)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Hello world", result.Items[0].ReferenceText)
	require.NotNil(t, result.Items[0].Translation)
	assert.Equal(t, "Halo dunia", *result.Items[0].Translation)
	assert.Nil(t, result.Items[1].Translation)
}

func TestParseContentItemsCSVRejectsWrongHeader(t *testing.T) {
	csvData := "text,translation\nHello,Halo\n"
	_, err := ParseContentItemsCSV(strings.NewReader(csvData))
	assert.Error(t, err)
}

func TestParseContentItemsCSVSkipsBlankRowsRecordsMissingText(t *testing.T) {
	// encoding/csv silently skips lines that are empty entirely (just a
	// newline); ",Halo," is not such a line — it has two empty fields
	// and one non-empty field, so it reaches our row validation and is
	// rejected for a missing reference_text.
	csvData := "reference_text,translation,reference_audio_url\n" +
		"\n" +
		",Halo,\n" +
		"Hello,,\n"

	result, err := ParseContentItemsCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
}

func TestParseContentItemsCSVRejectsEmptyFile(t *testing.T) {
	_, err := ParseContentItemsCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseContentItemsCSVRejectsHeaderOnlyFile(t *testing.T) {
	_, err := ParseContentItemsCSV(strings.NewReader("reference_text,translation,reference_audio_url\n"))
	assert.Error(t, err)
}

package assignment

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/duotopia/backend/internal/apperr"
)

// ImportRowError reports why one CSV row was rejected, so a bulk
// import can report partial success the way the template importer does
// (row number, offending field, message).
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarizes a bulk content-item import (D.2).
type ImportResult struct {
	TotalRows    int               `json:"total_rows"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	Errors       []ImportRowError  `json:"errors,omitempty"`
	Items        []ContentItemInput `json:"-"`
}

var contentItemHeader = []string{"reference_text", "translation", "reference_audio_url"}

// ParseContentItemsCSV reads a CSV of content items: header
// reference_text,translation,reference_audio_url, one row per item in
// import order. translation and reference_audio_url may be blank.
// Malformed rows are skipped and recorded in the result rather than
// aborting the whole import.
func ParseContentItemsCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperr.Validation("file has no rows", nil)
	}
	if err != nil {
		return nil, apperr.Validation("malformed CSV: "+err.Error(), nil)
	}
	if !validContentItemHeader(header) {
		return nil, apperr.Validation("header must be reference_text,translation,reference_audio_url", nil)
	}

	result := &ImportResult{}
	rowNumber := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			result.TotalRows++
			result.FailedCount++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNumber, Message: "malformed row: " + err.Error()})
			continue
		}
		if isEmptyRow(record) {
			continue
		}
		result.TotalRows++

		item, fieldErr := parseContentItemRow(record)
		if fieldErr != "" {
			result.FailedCount++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNumber, Field: "reference_text", Message: fieldErr})
			continue
		}

		result.Items = append(result.Items, item)
		result.SuccessCount++
	}

	if result.TotalRows == 0 {
		return nil, apperr.Validation("file has no data rows", nil)
	}
	return result, nil
}

func parseContentItemRow(record []string) (ContentItemInput, string) {
	var item ContentItemInput

	referenceText := ""
	if len(record) > 0 {
		referenceText = strings.TrimSpace(record[0])
	}
	if referenceText == "" {
		return item, "reference_text is required"
	}
	item.ReferenceText = referenceText

	if len(record) > 1 {
		if translation := strings.TrimSpace(record[1]); translation != "" {
			item.Translation = &translation
		}
	}
	if len(record) > 2 {
		if audioURL := strings.TrimSpace(record[2]); audioURL != "" {
			item.ReferenceAudioURL = &audioURL
		}
	}

	return item, ""
}

func validContentItemHeader(header []string) bool {
	if len(header) < len(contentItemHeader) {
		return false
	}
	for i, want := range contentItemHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return false
		}
	}
	return true
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

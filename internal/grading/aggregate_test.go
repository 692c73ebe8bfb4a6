package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duotopia/backend/internal/domain/models"
)

func scored(id uint, recording string, accuracy, fluency, pronunciation, completeness float64) models.StudentItemProgress {
	url := recording
	a, fl, p, c := accuracy, fluency, pronunciation, completeness
	return models.StudentItemProgress{ID: id, RecordingURL: &url, Accuracy: &a, Fluency: &fl, Pronunciation: &p, Completeness: &c}
}

func unscored(id uint, recording string) models.StudentItemProgress {
	if recording == "" {
		return models.StudentItemProgress{ID: id}
	}
	url := recording
	return models.StudentItemProgress{ID: id, RecordingURL: &url}
}

func TestAggregate_MeansOnlyOverScoredItems(t *testing.T) {
	items := []models.StudentItemProgress{
		scored(1, "a", 100, 100, 100, 100),
		scored(2, "b", 80, 80, 80, 80),
		unscored(3, "c"),
	}
	agg := aggregate(items)

	assert.Equal(t, 3, agg.TotalItems)
	assert.Equal(t, 3, agg.CompletedItems, "completed_items counts non-null recording_url regardless of scoring")
	assert.Equal(t, 1, agg.MissingItems, "missing_items counts rows with any null score dimension")
	assert.Equal(t, 90.0, agg.AvgAccuracy, "mean computed over the 2 scored items only, not divided by 3")
	assert.Equal(t, 90.0, agg.TotalScore)
}

func TestAggregate_DivergesCompletedVsMissingPerWorkedExample(t *testing.T) {
	// S5: item 2 has a recording but failed scoring (null scores); items 1
	// and 3 are both recorded and scored. completed_items=3, missing_items=1.
	items := []models.StudentItemProgress{
		scored(1, "a", 90, 90, 90, 90),
		unscored(2, "b"),
		scored(3, "c", 80, 80, 80, 80),
	}
	agg := aggregate(items)

	assert.Equal(t, 3, agg.TotalItems)
	assert.Equal(t, 3, agg.CompletedItems)
	assert.Equal(t, 1, agg.MissingItems)
}

func TestAggregate_NoScoredItemsYieldsZeroMeans(t *testing.T) {
	items := []models.StudentItemProgress{
		unscored(1, "a"),
		unscored(2, ""),
	}
	agg := aggregate(items)

	assert.Equal(t, 1, agg.CompletedItems, "only item 1 has a recording_url")
	assert.Equal(t, 2, agg.MissingItems)
	assert.Equal(t, 0.0, agg.TotalScore)
	assert.Equal(t, 0.0, agg.AvgAccuracy)
}

func TestAggregate_RoundsToOneDecimal(t *testing.T) {
	items := []models.StudentItemProgress{
		scored(1, "a", 100, 100, 100, 100),
		scored(2, "b", 90, 90, 90, 90),
		scored(3, "c", 80, 80, 80, 80),
	}
	agg := aggregate(items)
	// mean = (100+90+80)/3 = 90.0 exactly, but verify rounding helper directly too.
	assert.Equal(t, 90.0, agg.AvgAccuracy)
	assert.Equal(t, 90.0, roundTo1(89.96))
	assert.Equal(t, 90.1, roundTo1(90.05))
}

func TestAggregate_EmptyItemsYieldsZeroedAggregate(t *testing.T) {
	agg := aggregate(nil)
	assert.Equal(t, 0, agg.TotalItems)
	assert.Equal(t, 0, agg.CompletedItems)
	assert.Equal(t, 0, agg.MissingItems)
	assert.Equal(t, 0.0, agg.TotalScore)
}

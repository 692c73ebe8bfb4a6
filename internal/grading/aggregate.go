package grading

import (
	"math"
	"strconv"
	"strings"

	"github.com/duotopia/backend/internal/domain/models"
)

// studentAggregate holds the computed §4.4 aggregation for one
// student's assignment: per-dimension means, total score, and the
// completion/missing counters the response shape requires.
type studentAggregate struct {
	TotalItems      int
	CompletedItems  int
	MissingItems    int
	AvgAccuracy     float64
	AvgFluency      float64
	AvgPronunciation float64
	AvgCompleteness float64
	TotalScore      float64
}

// aggregate computes a studentAggregate over items (§4.4
// "Aggregation"): completed_items counts non-null, non-empty recording_url,
// missing_items counts any-null-dimension rows, each dimension mean is
// over non-null values (0 if none), and total_score is the mean of
// the four dimension means.
func aggregate(items []models.StudentItemProgress) studentAggregate {
	agg := studentAggregate{TotalItems: len(items)}

	var accuracySum, fluencySum, pronunciationSum, completenessSum float64
	var accuracyN, fluencyN, pronunciationN, completenessN int

	for _, item := range items {
		if item.IsComplete() {
			agg.CompletedItems++
		}
		if hasAnyNilScore(item) {
			agg.MissingItems++
		}
		if item.Accuracy != nil {
			accuracySum += *item.Accuracy
			accuracyN++
		}
		if item.Fluency != nil {
			fluencySum += *item.Fluency
			fluencyN++
		}
		if item.Pronunciation != nil {
			pronunciationSum += *item.Pronunciation
			pronunciationN++
		}
		if item.Completeness != nil {
			completenessSum += *item.Completeness
			completenessN++
		}
	}

	agg.AvgAccuracy = meanOrZero(accuracySum, accuracyN)
	agg.AvgFluency = meanOrZero(fluencySum, fluencyN)
	agg.AvgPronunciation = meanOrZero(pronunciationSum, pronunciationN)
	agg.AvgCompleteness = meanOrZero(completenessSum, completenessN)
	agg.TotalScore = (agg.AvgAccuracy + agg.AvgFluency + agg.AvgPronunciation + agg.AvgCompleteness) / 4

	agg.AvgAccuracy = roundTo1(agg.AvgAccuracy)
	agg.AvgFluency = roundTo1(agg.AvgFluency)
	agg.AvgPronunciation = roundTo1(agg.AvgPronunciation)
	agg.AvgCompleteness = roundTo1(agg.AvgCompleteness)
	agg.TotalScore = roundTo1(agg.TotalScore)

	return agg
}

// hasAnyNilScore reports whether item has at least one null score
// dimension, counting toward missing_items even when some dimensions
// are set (I3 normally keeps all four in lockstep, but a row that has
// never been assessed has all four nil).
func hasAnyNilScore(item models.StudentItemProgress) bool {
	return item.Accuracy == nil || item.Fluency == nil || item.Pronunciation == nil || item.Completeness == nil
}

func meanOrZero(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func trimTrailingZero(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}

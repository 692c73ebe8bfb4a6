package grading

import "strings"

// Band cutoffs are inclusive ≥ (90/80/70), resolved per spec.md — not
// exclusive ">", so a score of exactly 90.0 lands in the top band.
const (
	bandExcellent = 90.0
	bandGood      = 80.0
	bandFair      = 70.0
)

func band(score float64) string {
	switch {
	case score >= bandExcellent:
		return "excellent"
	case score >= bandGood:
		return "good"
	case score >= bandFair:
		return "fair"
	default:
		return "weak"
	}
}

var dimensionPhrases = map[string]map[string]string{
	"pronunciation": {
		"excellent": "發音非常標準",
		"good":      "發音清楚",
		"fair":      "發音大致正確，仍有進步空間",
		"weak":      "發音需要加強練習",
	},
	"accuracy": {
		"excellent": "用字精準",
		"good":      "用字大致正確",
		"fair":      "用字偶有誤差",
		"weak":      "用字落差較大",
	},
	"fluency": {
		"excellent": "語句流暢自然",
		"good":      "語速平穩",
		"fair":      "語速稍有停頓",
		"weak":      "語句不夠流暢",
	},
	"completeness": {
		"excellent": "完整唸出全部內容",
		"good":      "大部分內容完整",
		"fair":      "部分內容被省略",
		"weak":      "多處內容未唸出",
	},
}

// itemFeedback synthesizes the per-item feedback phrase (§4.4
// "Per-item feedback synthesis"): one clause per score dimension,
// joined with a full-width punctuator.
func itemFeedback(accuracy, fluency, pronunciation, completeness float64) string {
	clauses := []string{
		dimensionPhrases["pronunciation"][band(pronunciation)],
		dimensionPhrases["accuracy"][band(accuracy)],
		dimensionPhrases["fluency"][band(fluency)],
		dimensionPhrases["completeness"][band(completeness)],
	}
	return strings.Join(clauses, "，")
}

// assignmentFeedback synthesizes the per-assignment summary feedback
// stored in StudentAssignment.feedback (§4.4 "Assignment-level
// feedback synthesis"): completion rate, overall banding, notable
// strong/weak dimensions, and a banded suggestion.
func assignmentFeedback(totalItems, completedItems int, totalScore, avgAccuracy, avgFluency, avgPronunciation, avgCompleteness float64) string {
	var clauses []string

	if totalItems == 0 {
		clauses = append(clauses, "本次作業尚無可評分項目")
	} else {
		rate := float64(completedItems) / float64(totalItems) * 100
		clauses = append(clauses, sentenceForCompletionRate(rate, completedItems, totalItems))
	}

	clauses = append(clauses, sentenceForOverallBand(totalScore))

	// completedItems == 0 means no audio has been recorded yet, so the
	// dimension averages are meaningless zeros rather than real scores
	// — omit the strongest/weakest clauses instead of flagging every
	// dimension as weak (§8 B2 "completed_items = 0 ... omits
	// dimension-detail clauses").
	if completedItems > 0 {
		if strong := strongestDimension(avgAccuracy, avgFluency, avgPronunciation, avgCompleteness); strong != "" {
			clauses = append(clauses, strong+"表現亮眼")
		}
		if weak := weakestDimension(avgAccuracy, avgFluency, avgPronunciation, avgCompleteness); weak != "" {
			clauses = append(clauses, weak+"仍待加強")
		}
	}

	clauses = append(clauses, sentenceForSuggestion(totalScore))

	return strings.Join(clauses, "。") + "。"
}

func sentenceForCompletionRate(rate float64, completed, total int) string {
	if rate >= 100 {
		return "已完成全部錄音項目"
	}
	return "錄音完成度為" + formatPercent(rate)
}

func sentenceForOverallBand(totalScore float64) string {
	switch band(totalScore) {
	case "excellent":
		return "整體表現優異"
	case "good":
		return "整體表現良好"
	case "fair":
		return "整體表現尚可"
	default:
		return "整體表現仍有待加強"
	}
}

type namedDimension struct {
	name  string
	value float64
}

// orderedDimensions fixes dimension order (pronunciation, accuracy,
// fluency, completeness) so strongest/weakest tie-breaks are
// deterministic rather than dependent on map iteration order.
func orderedDimensions(accuracy, fluency, pronunciation, completeness float64) []namedDimension {
	return []namedDimension{
		{"發音", pronunciation},
		{"用字", accuracy},
		{"流暢度", fluency},
		{"完整度", completeness},
	}
}

// strongestDimension names the highest-scoring dimension at ≥85, or ""
// if none qualifies (§4.4 "≥85 highlighted"). Ties break toward the
// fixed dimension order so the choice is deterministic.
func strongestDimension(accuracy, fluency, pronunciation, completeness float64) string {
	const highlightCutoff = 85.0
	dims := orderedDimensions(accuracy, fluency, pronunciation, completeness)
	best := -1
	for i, d := range dims {
		if d.value < highlightCutoff {
			continue
		}
		if best == -1 || d.value > dims[best].value {
			best = i
		}
	}
	if best == -1 {
		return ""
	}
	return dims[best].name
}

// weakestDimension names the lowest-scoring dimension below 70, or ""
// if none qualifies (§4.4 "<70 flagged"). Ties break toward the fixed
// dimension order so the choice is deterministic.
func weakestDimension(accuracy, fluency, pronunciation, completeness float64) string {
	dims := orderedDimensions(accuracy, fluency, pronunciation, completeness)
	worst := -1
	for i, d := range dims {
		if d.value >= bandFair {
			continue
		}
		if worst == -1 || d.value < dims[worst].value {
			worst = i
		}
	}
	if worst == -1 {
		return ""
	}
	return dims[worst].name
}

func sentenceForSuggestion(totalScore float64) string {
	switch band(totalScore) {
	case "excellent":
		return "請保持目前的練習節奏"
	case "good":
		return "建議持續累積練習量以求穩定"
	case "fair":
		return "建議針對錯誤較多的段落重複練習"
	default:
		return "建議放慢速度並逐句跟讀加強基礎"
	}
}

func formatPercent(rate float64) string {
	return trimTrailingZero(roundTo1(rate)) + "%"
}

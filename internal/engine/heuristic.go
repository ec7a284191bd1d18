package engine

import (
	"math"
	"strings"
)

// Feedback tiers for heuristic scoring, keyed by score thresholds.
const (
	feedbackExcellent  = "Excellent answer. You covered the question thoroughly, backed your points with concrete detail, and structured the response well."
	feedbackGood       = "Good answer. The core points are there; adding a specific example or a clearer structure would make it stronger."
	feedbackDeveloping = "Developing answer. You touched on the topic, but the response needs more depth and concrete detail to be convincing."
	feedbackNeedsWork  = "This answer needs work. Try expanding it with specifics from your own experience and walk through your reasoning step by step."
)

// HeuristicEvaluate scores an answer without any AI involvement. It is a pure
// function of the answer text: same input, same score, same feedback.
func HeuristicEvaluate(answer string) EvaluationResult {
	score := 5.0
	n := len(answer)

	switch {
	case n < 50:
		score -= 2
	case n > 300:
		score += 1
	case n > 200:
		score += 1
	}

	lower := strings.ToLower(answer)
	if strings.Contains(lower, "example") || strings.Contains(lower, "experience") {
		score += 1.5
	}
	if strings.Contains(lower, "first") || strings.Contains(lower, "second") || strings.Contains(lower, "finally") {
		score += 0.5
	}

	score = clampScore(score, 1, 10)
	return EvaluationResult{Score: score, Feedback: FeedbackForScore(score)}
}

// FeedbackForScore maps a score onto one of the four fixed feedback tiers.
func FeedbackForScore(score float64) string {
	switch {
	case score >= 8:
		return feedbackExcellent
	case score >= 6:
		return feedbackGood
	case score >= 4:
		return feedbackDeveloping
	default:
		return feedbackNeedsWork
	}
}

// clampScore bounds score to [min, max] and rounds to one decimal place.
func clampScore(score, min, max float64) float64 {
	if score < min {
		score = min
	}
	if score > max {
		score = max
	}
	return math.Round(score*10) / 10
}

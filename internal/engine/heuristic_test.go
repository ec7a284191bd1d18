package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicShortAnswerWithoutKeywords(t *testing.T) {
	answer := "A short reply with no buzzwords."
	require.Less(t, len(answer), 50)

	result := HeuristicEvaluate(answer)
	assert.Equal(t, 3.0, result.Score)
	assert.Equal(t, feedbackNeedsWork, result.Feedback)
}

func TestHeuristicLongAnswerWithExperienceAndOrdinal(t *testing.T) {
	answer := "In my experience the first thing to do is reproduce the problem. " +
		strings.Repeat("Then I narrow the search space methodically and verify each assumption. ", 5)
	require.Greater(t, len(answer), 300)

	result := HeuristicEvaluate(answer)
	assert.Equal(t, 8.0, result.Score)
	assert.Equal(t, feedbackExcellent, result.Feedback)
}

func TestHeuristicMidLengthAnswerWithExample(t *testing.T) {
	answer := "For example, when our deploys started failing I checked the pipeline logs, " +
		"found a stale cache, cleared it, and added a check so the same failure could not recur silently. " +
		"That fix held up over the following months."
	require.Greater(t, len(answer), 200)
	require.LessOrEqual(t, len(answer), 300)

	result := HeuristicEvaluate(answer)
	assert.Equal(t, 7.5, result.Score)
	assert.Equal(t, feedbackGood, result.Feedback)
}

func TestHeuristicKeywordsAreCaseInsensitive(t *testing.T) {
	result := HeuristicEvaluate("My EXPERIENCE says so.")
	// 5 - 2 (short) + 1.5 (experience) = 4.5
	assert.Equal(t, 4.5, result.Score)
	assert.Equal(t, feedbackDeveloping, result.Feedback)
}

func TestHeuristicIsPure(t *testing.T) {
	answer := "First I wrote a failing test, for example one covering the edge case, and finally fixed the bug."
	a := HeuristicEvaluate(answer)
	b := HeuristicEvaluate(answer)
	assert.Equal(t, a, b)
}

func TestHeuristicScoreNeverBelowOne(t *testing.T) {
	result := HeuristicEvaluate("")
	assert.GreaterOrEqual(t, result.Score, 1.0)
	assert.LessOrEqual(t, result.Score, 10.0)
}

func TestFeedbackTiers(t *testing.T) {
	assert.Equal(t, feedbackExcellent, FeedbackForScore(8.0))
	assert.Equal(t, feedbackGood, FeedbackForScore(6.0))
	assert.Equal(t, feedbackGood, FeedbackForScore(7.9))
	assert.Equal(t, feedbackDeveloping, FeedbackForScore(4.0))
	assert.Equal(t, feedbackNeedsWork, FeedbackForScore(3.9))
}

package engine

import "time"

type InterviewType string

const (
	TypeTechnical    InterviewType = "technical"
	TypeBehavioral   InterviewType = "behavioral"
	TypeSystemDesign InterviewType = "system-design"
	TypeGeneral      InterviewType = "general"
)

func (t InterviewType) Valid() bool {
	switch t {
	case TypeTechnical, TypeBehavioral, TypeSystemDesign, TypeGeneral:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// QuestionCount is fixed at session-generation time and never changes afterward.
func (d Difficulty) QuestionCount() int {
	switch d {
	case DifficultyBeginner:
		return 4
	case DifficultyAdvanced:
		return 6
	default:
		return 5
	}
}

type ResponseMode string

const (
	ModeText  ResponseMode = "text"
	ModeVoice ResponseMode = "voice"
)

// SessionConfig is immutable after session creation.
type SessionConfig struct {
	Role       string        `json:"role"`
	Type       InterviewType `json:"type"`
	Mode       ResponseMode  `json:"mode"`
	Difficulty Difficulty    `json:"difficulty"`
	Provider   string        `json:"provider"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Question holds one prompt and, once submitted, its evaluated answer.
// Answered is true iff Answer, Feedback and Score are all set.
type Question struct {
	Index        int      `json:"index"`
	Prompt       string   `json:"prompt"`
	Answer       string   `json:"answer,omitempty"`
	Feedback     string   `json:"feedback,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	Answered     bool     `json:"answered"`
	TimeSpentSec int      `json:"time_spent_sec,omitempty"`
}

type EvaluationResult struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

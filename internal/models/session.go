package models

import "time"

type InterviewSession struct {
	ID            string              `gorm:"primaryKey;size:36" json:"id"`
	Role          string              `gorm:"size:100;not null" json:"role"`
	Type          string              `gorm:"size:20;not null" json:"type"`
	Mode          string              `gorm:"size:10;not null;default:'text'" json:"mode"`
	Difficulty    string              `gorm:"size:20;not null" json:"difficulty"`
	Provider      string              `gorm:"size:20;not null" json:"provider"`
	Status        string              `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	QuestionCount int                 `gorm:"not null" json:"question_count"`
	OverallScore  float64             `gorm:"not null;default:0" json:"overall_score"`
	Feedback      string              `gorm:"type:text" json:"feedback,omitempty"`
	DurationSec   int                 `gorm:"not null;default:0" json:"duration_sec"`
	StartedAt     time.Time           `json:"started_at"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	Questions     []InterviewQuestion `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

const (
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
)

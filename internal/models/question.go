package models

type InterviewQuestion struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	SessionID    string   `gorm:"size:36;not null;uniqueIndex:idx_session_question" json:"session_id"`
	OrderNum     int      `gorm:"not null;uniqueIndex:idx_session_question" json:"order_num"`
	Prompt       string   `gorm:"type:text;not null" json:"prompt"`
	Answer       string   `gorm:"type:text" json:"answer,omitempty"`
	Feedback     string   `gorm:"type:text" json:"feedback,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	Answered     bool     `gorm:"not null;default:false" json:"answered"`
	TimeSpentSec int      `gorm:"not null;default:0" json:"time_spent_sec"`
}

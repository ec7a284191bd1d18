package services

import (
	"errors"
	"time"

	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/models"

	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists interview sessions and per-question results in
// postgres. It implements the Store interface consumed by InterviewService.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) CreateSession(session *models.InterviewSession) error {
	return s.db.Create(session).Error
}

func (s *SessionStore) SaveAnswer(sessionID string, orderNum int, answer, feedback string, score float64, timeSpentSec int) error {
	return s.db.Model(&models.InterviewQuestion{}).
		Where("session_id = ? AND order_num = ?", sessionID, orderNum).
		Updates(map[string]interface{}{
			"answer":         answer,
			"feedback":       feedback,
			"score":          score,
			"answered":       true,
			"time_spent_sec": timeSpentSec,
		}).Error
}

func (s *SessionStore) CompleteSession(sessionID string, overallScore float64, feedback string, durationSec int) error {
	now := time.Now()
	return s.db.Model(&models.InterviewSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":        models.SessionStatusCompleted,
			"overall_score": overallScore,
			"feedback":      feedback,
			"duration_sec":  durationSec,
			"completed_at":  &now,
		}).Error
}

func (s *SessionStore) GetSession(sessionID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&session, "id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *SessionStore) ListSessions() ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := s.db.Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

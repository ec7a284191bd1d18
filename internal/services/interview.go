package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/engine"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/models"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/oracle"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/ws"
)

var (
	ErrSessionCompleted = errors.New("session already completed")
	ErrSessionLive      = errors.New("session is already live")
)

// Store is the persistence boundary. Failures here never block session
// progression; they are reported back for retry or telemetry.
type Store interface {
	CreateSession(session *models.InterviewSession) error
	SaveAnswer(sessionID string, orderNum int, answer, feedback string, score float64, timeSpentSec int) error
	CompleteSession(sessionID string, overallScore float64, feedback string, durationSec int) error
	GetSession(sessionID string) (*models.InterviewSession, error)
	ListSessions() ([]models.InterviewSession, error)
}

// EventSink receives fire-and-forget session notifications.
type EventSink interface {
	Publish(sessionID, eventType string, data interface{})
}

// InterviewService is the controller a presentation layer calls into. It owns
// the live state machines, drives their clocks, and orchestrates the oracle
// and the persistence store around every transition.
type InterviewService struct {
	mu     sync.RWMutex
	live   map[string]*liveSession
	oracle *oracle.Client
	store  Store
	events EventSink
}

type liveSession struct {
	mu        sync.Mutex
	machine   *engine.Machine
	genSource oracle.Source
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewInterviewService(oracleClient *oracle.Client, store Store, events EventSink) *InterviewService {
	return &InterviewService{
		live:   make(map[string]*liveSession),
		oracle: oracleClient,
		store:  store,
		events: events,
	}
}

type CreateSessionInput struct {
	Role       string `json:"role" binding:"required" example:"software engineer"`
	Type       string `json:"type" example:"behavioral"`
	Difficulty string `json:"difficulty" example:"intermediate"`
	Mode       string `json:"mode" example:"text"`
	Provider   string `json:"provider" example:"gemini"`
}

// SessionView is the full session state returned to the presentation layer.
type SessionView struct {
	ID             string                `json:"id"`
	Role           string                `json:"role"`
	Type           engine.InterviewType  `json:"type"`
	Mode           engine.ResponseMode   `json:"mode"`
	Difficulty     engine.Difficulty     `json:"difficulty"`
	Provider       string                `json:"provider"`
	Status         engine.Status         `json:"status"`
	CurrentIndex   int                   `json:"current_index"`
	Questions      []engine.Question     `json:"questions"`
	ElapsedSec     int                   `json:"elapsed_sec"`
	QuestionSource oracle.Source         `json:"question_source"`
	OverallScore   *float64              `json:"overall_score,omitempty"`
	Feedback       string                `json:"feedback,omitempty"`
	PersistError   string                `json:"persist_error,omitempty"`
}

// AnswerView reports the outcome of one answer submission.
type AnswerView struct {
	Question     engine.Question `json:"question"`
	Source       oracle.Source   `json:"source"`
	PersistError string          `json:"persist_error,omitempty"`
}

type SessionSummary struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Type          string    `json:"type"`
	Difficulty    string    `json:"difficulty"`
	Status        string    `json:"status"`
	QuestionCount int       `json:"question_count"`
	OverallScore  float64   `json:"overall_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateSession generates a question set (oracle or fallback, never an
// error), initializes the state machine and persists the session skeleton. A
// persistence failure is reported in the view but does not abort the session.
func (s *InterviewService) CreateSession(ctx context.Context, in CreateSessionInput) (*SessionView, error) {
	cfg := engine.SessionConfig{
		Role:       in.Role,
		Type:       engine.InterviewType(in.Type),
		Mode:       engine.ResponseMode(in.Mode),
		Difficulty: engine.Difficulty(in.Difficulty),
		Provider:   s.oracle.ResolveProvider(in.Provider),
		CreatedAt:  time.Now(),
	}
	if !cfg.Type.Valid() {
		cfg.Type = engine.TypeGeneral
	}
	if !cfg.Difficulty.Valid() {
		cfg.Difficulty = engine.DifficultyIntermediate
	}
	if cfg.Mode != engine.ModeVoice {
		cfg.Mode = engine.ModeText
	}

	gen := s.oracle.GenerateQuestions(ctx, cfg)

	questions := make([]engine.Question, len(gen.Questions))
	for i, prompt := range gen.Questions {
		questions[i] = engine.Question{Index: i, Prompt: prompt}
	}

	machine := engine.NewMachine(cfg)
	if err := machine.Initialize(questions, time.Time{}); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	ls := &liveSession{machine: machine, genSource: gen.Source, stop: make(chan struct{})}

	persistErr := ""
	record := sessionRecord(id, machine)
	if err := s.store.CreateSession(record); err != nil {
		log.Printf("interview: failed to persist session %s: %v", id, err)
		persistErr = err.Error()
		s.events.Publish(id, ws.EventPersistFailed, map[string]interface{}{"op": "create", "error": err.Error()})
	}

	s.mu.Lock()
	s.live[id] = ls
	s.mu.Unlock()
	s.startClock(ls)

	s.events.Publish(id, ws.EventSessionStarted, map[string]interface{}{
		"role":            cfg.Role,
		"type":            cfg.Type,
		"difficulty":      cfg.Difficulty,
		"provider":        cfg.Provider,
		"question_count":  len(questions),
		"question_source": gen.Source,
	})

	view := s.viewLocked(id, ls)
	view.PersistError = persistErr
	return view, nil
}

// SubmitAnswer evaluates the current question's answer. The oracle call never
// fails upward: a transport or parse failure produces the heuristic result
// instead, tagged with its source. A second submission while one is in flight
// is rejected with no side effects.
func (s *InterviewService) SubmitAnswer(ctx context.Context, id, answer string) (*AnswerView, error) {
	ls, err := s.liveSession(id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	cfg := ls.machine.Config()
	current := ls.machine.CurrentQuestion()
	if err := ls.machine.StartSubmission(); err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	ls.mu.Unlock()

	// Suspension point: the machine stays available for reads, and the
	// submitting flag rejects re-entrant submissions until this resolves.
	result := s.oracle.EvaluateAnswer(ctx, current.Prompt, answer, cfg.Role, cfg.Provider)

	ls.mu.Lock()
	if err := ls.machine.RecordEvaluation(answer, result.EvaluationResult); err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	answered := ls.machine.CurrentQuestion()
	ls.mu.Unlock()

	persistErr := ""
	if err := s.store.SaveAnswer(id, answered.Index, answered.Answer, answered.Feedback, *answered.Score, answered.TimeSpentSec); err != nil {
		log.Printf("interview: failed to persist answer %d for session %s: %v", answered.Index, id, err)
		persistErr = err.Error()
		s.events.Publish(id, ws.EventPersistFailed, map[string]interface{}{"op": "answer", "error": err.Error()})
	}

	s.events.Publish(id, ws.EventQuestionAnswered, map[string]interface{}{
		"index":         answered.Index,
		"category":      cfg.Type,
		"response_time": answered.TimeSpentSec,
		"score":         *answered.Score,
		"source":        result.Source,
	})

	return &AnswerView{Question: answered, Source: result.Source, PersistError: persistErr}, nil
}

// Advance moves to the next question or, on the last one, completes the
// session: the aggregate score is the mean of answered questions, and the
// summary is handed to the store. A persistence failure still completes the
// session locally.
func (s *InterviewService) Advance(id string) (*SessionView, error) {
	return s.step(id, func(m *engine.Machine) (bool, error) { return m.Advance() })
}

// Skip abandons the current unanswered question permanently and advances.
func (s *InterviewService) Skip(id string) (*SessionView, error) {
	return s.step(id, func(m *engine.Machine) (bool, error) { return m.Skip() })
}

func (s *InterviewService) step(id string, fn func(*engine.Machine) (bool, error)) (*SessionView, error) {
	ls, err := s.liveSession(id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	completed, err := fn(ls.machine)
	if err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	if !completed {
		view := s.viewWithMachine(id, ls)
		ls.mu.Unlock()
		return view, nil
	}

	avg := ls.machine.AverageScore()
	feedback := engine.FeedbackForScore(avg)
	duration := ls.machine.ElapsedSeconds()
	questionCount := len(ls.machine.Questions())
	view := s.viewWithMachine(id, ls)
	ls.mu.Unlock()

	if err := s.store.CompleteSession(id, avg, feedback, duration); err != nil {
		log.Printf("interview: failed to persist completion of session %s: %v", id, err)
		view.PersistError = err.Error()
		s.events.Publish(id, ws.EventPersistFailed, map[string]interface{}{"op": "complete", "error": err.Error()})
	}

	s.events.Publish(id, ws.EventSessionCompleted, map[string]interface{}{
		"question_count": questionCount,
		"average_score":  avg,
		"total_time":     duration,
	})

	// The in-memory session is done; only the persisted summary remains.
	s.dropLive(id, ls)

	view.OverallScore = &avg
	view.Feedback = feedback
	return view, nil
}

func (s *InterviewService) Pause(id string) (*SessionView, error) {
	return s.transition(id, (*engine.Machine).Pause)
}

func (s *InterviewService) Resume(id string) (*SessionView, error) {
	return s.transition(id, (*engine.Machine).Resume)
}

// JumpTo revisits an answered question; jumping ahead is rejected with no
// state change.
func (s *InterviewService) JumpTo(id string, index int) (*SessionView, error) {
	return s.transition(id, func(m *engine.Machine) error { return m.JumpTo(index) })
}

func (s *InterviewService) transition(id string, fn func(*engine.Machine) error) (*SessionView, error) {
	ls, err := s.liveSession(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if err := fn(ls.machine); err != nil {
		return nil, err
	}
	return s.viewWithMachine(id, ls), nil
}

// GetSession returns the live state when the session is in memory, otherwise
// the persisted record. A missing session is a terminal not-found outcome.
func (s *InterviewService) GetSession(id string) (*SessionView, error) {
	s.mu.RLock()
	ls, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		return s.viewLocked(id, ls), nil
	}

	record, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	return recordView(record), nil
}

// ResumeSession rebuilds a live state machine from a persisted in-progress
// session, restoring config, answered questions and the original start time.
func (s *InterviewService) ResumeSession(id string) (*SessionView, error) {
	s.mu.RLock()
	_, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		return nil, ErrSessionLive
	}

	record, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	if record.Status == models.SessionStatusCompleted {
		return nil, ErrSessionCompleted
	}

	cfg := engine.SessionConfig{
		Role:       record.Role,
		Type:       engine.InterviewType(record.Type),
		Mode:       engine.ResponseMode(record.Mode),
		Difficulty: engine.Difficulty(record.Difficulty),
		Provider:   record.Provider,
		CreatedAt:  record.CreatedAt,
	}

	questions := make([]engine.Question, len(record.Questions))
	for i, q := range record.Questions {
		questions[i] = engine.Question{
			Index:        q.OrderNum,
			Prompt:       q.Prompt,
			Answer:       q.Answer,
			Feedback:     q.Feedback,
			Score:        q.Score,
			Answered:     q.Answered,
			TimeSpentSec: q.TimeSpentSec,
		}
	}

	machine := engine.NewMachine(cfg)
	if err := machine.Initialize(questions, record.StartedAt); err != nil {
		return nil, err
	}

	ls := &liveSession{machine: machine, genSource: oracle.SourceOracle, stop: make(chan struct{})}
	s.mu.Lock()
	s.live[id] = ls
	s.mu.Unlock()
	s.startClock(ls)

	return s.viewLocked(id, ls), nil
}

func (s *InterviewService) ListSessions() ([]SessionSummary, error) {
	records, err := s.store.ListSessions()
	if err != nil {
		return nil, err
	}
	out := make([]SessionSummary, len(records))
	for i, r := range records {
		out[i] = SessionSummary{
			ID:            r.ID,
			Role:          r.Role,
			Type:          r.Type,
			Difficulty:    r.Difficulty,
			Status:        r.Status,
			QuestionCount: r.QuestionCount,
			OverallScore:  r.OverallScore,
			CreatedAt:     r.CreatedAt,
		}
	}
	return out, nil
}

// Close stops the clock of every live session. Used on shutdown.
func (s *InterviewService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ls := range s.live {
		ls.stopOnce.Do(func() { close(ls.stop) })
		delete(s.live, id)
	}
}

func (s *InterviewService) liveSession(id string) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		return ls, nil
	}

	record, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	if record.Status == models.SessionStatusCompleted {
		return nil, ErrSessionCompleted
	}
	// Persisted but not live: the caller must resume it first.
	return nil, ErrSessionNotFound
}

// startClock accrues elapsed time, one tick per second, while the machine is
// active. Pausing stops accrual inside the machine itself.
func (s *InterviewService) startClock(ls *liveSession) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ls.stop:
				return
			case <-ticker.C:
				ls.mu.Lock()
				ls.machine.Tick()
				ls.mu.Unlock()
			}
		}
	}()
}

func (s *InterviewService) dropLive(id string, ls *liveSession) {
	ls.stopOnce.Do(func() { close(ls.stop) })
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}

func (s *InterviewService) viewLocked(id string, ls *liveSession) *SessionView {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return s.viewWithMachine(id, ls)
}

// viewWithMachine builds a view; the caller holds ls.mu.
func (s *InterviewService) viewWithMachine(id string, ls *liveSession) *SessionView {
	m := ls.machine
	cfg := m.Config()
	return &SessionView{
		ID:             id,
		Role:           cfg.Role,
		Type:           cfg.Type,
		Mode:           cfg.Mode,
		Difficulty:     cfg.Difficulty,
		Provider:       cfg.Provider,
		Status:         m.Status(),
		CurrentIndex:   m.CurrentIndex(),
		Questions:      m.Questions(),
		ElapsedSec:     m.ElapsedSeconds(),
		QuestionSource: ls.genSource,
	}
}

func sessionRecord(id string, m *engine.Machine) *models.InterviewSession {
	cfg := m.Config()
	questions := m.Questions()
	record := &models.InterviewSession{
		ID:            id,
		Role:          cfg.Role,
		Type:          string(cfg.Type),
		Mode:          string(cfg.Mode),
		Difficulty:    string(cfg.Difficulty),
		Provider:      cfg.Provider,
		Status:        models.SessionStatusInProgress,
		QuestionCount: len(questions),
		StartedAt:     m.StartTime(),
	}
	for _, q := range questions {
		record.Questions = append(record.Questions, models.InterviewQuestion{
			SessionID: id,
			OrderNum:  q.Index,
			Prompt:    q.Prompt,
		})
	}
	return record
}

func recordView(r *models.InterviewSession) *SessionView {
	view := &SessionView{
		ID:             r.ID,
		Role:           r.Role,
		Type:           engine.InterviewType(r.Type),
		Mode:           engine.ResponseMode(r.Mode),
		Difficulty:     engine.Difficulty(r.Difficulty),
		Provider:       r.Provider,
		ElapsedSec:     r.DurationSec,
		QuestionSource: oracle.SourceOracle,
		Feedback:       r.Feedback,
	}
	if r.Status == models.SessionStatusCompleted {
		view.Status = engine.StatusCompleted
		score := r.OverallScore
		view.OverallScore = &score
	} else {
		view.Status = engine.StatusNotStarted
	}
	for _, q := range r.Questions {
		view.Questions = append(view.Questions, engine.Question{
			Index:        q.OrderNum,
			Prompt:       q.Prompt,
			Answer:       q.Answer,
			Feedback:     q.Feedback,
			Score:        q.Score,
			Answered:     q.Answered,
			TimeSpentSec: q.TimeSpentSec,
		})
	}
	return view
}

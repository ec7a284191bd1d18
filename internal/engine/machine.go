package engine

import (
	"errors"
	"math"
	"time"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

var (
	ErrNotStarted         = errors.New("session not started")
	ErrAlreadyStarted     = errors.New("session already started")
	ErrCompleted          = errors.New("session already completed")
	ErrPaused             = errors.New("session is paused")
	ErrNotPaused          = errors.New("session is not paused")
	ErrNoQuestions        = errors.New("session must have at least one question")
	ErrAlreadyAnswered    = errors.New("current question already answered")
	ErrNotAnswered        = errors.New("current question not answered yet")
	ErrSubmissionInFlight = errors.New("an answer submission is already in flight")
	ErrNoSubmission       = errors.New("no answer submission in flight")
	ErrInvalidIndex       = errors.New("question index out of range")
	ErrJumpAhead          = errors.New("cannot jump to an unanswered future question")
)

// Machine is the authoritative in-memory state of one interview session.
// It is deliberately single-threaded: callers serialize access and drive the
// clock via Tick. It has no oracle, storage or transport dependencies, so the
// full transition graph is testable in isolation.
type Machine struct {
	config     SessionConfig
	questions  []Question
	current    int
	status     Status
	startTime  time.Time
	elapsedSec int
	submitting bool

	// elapsed reading when the current question became current, used to
	// derive per-question time spent.
	questionStartSec int
}

func NewMachine(config SessionConfig) *Machine {
	return &Machine{config: config, status: StatusNotStarted}
}

// Initialize moves the machine from NotStarted to Active. On a fresh session
// questions carry prompts only and startTime is the zero value (now is used).
// On resume, questions may already be answered and startTime restores the
// original session clock; the current index lands on the first unanswered
// question, or the last question when everything is answered.
func (m *Machine) Initialize(questions []Question, startTime time.Time) error {
	if m.status != StatusNotStarted {
		return ErrAlreadyStarted
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	m.questions = make([]Question, len(questions))
	copy(m.questions, questions)
	for i := range m.questions {
		m.questions[i].Index = i
	}

	m.current = len(m.questions) - 1
	for i := range m.questions {
		if !m.questions[i].Answered {
			m.current = i
			break
		}
	}

	if startTime.IsZero() {
		startTime = time.Now()
	}
	m.startTime = startTime
	m.status = StatusActive
	m.questionStartSec = m.elapsedSec
	return nil
}

// StartSubmission reserves the current question for an in-flight answer
// evaluation. A second submission attempt before RecordEvaluation is rejected
// with no side effects.
func (m *Machine) StartSubmission() error {
	if err := m.requireActive(); err != nil {
		return err
	}
	if m.submitting {
		return ErrSubmissionInFlight
	}
	if m.questions[m.current].Answered {
		return ErrAlreadyAnswered
	}
	m.submitting = true
	return nil
}

// RecordEvaluation completes an in-flight submission, mutating the current
// question exactly once. It does not advance the session.
func (m *Machine) RecordEvaluation(answer string, eval EvaluationResult) error {
	if !m.submitting {
		return ErrNoSubmission
	}
	q := &m.questions[m.current]
	score := eval.Score
	q.Answer = answer
	q.Feedback = eval.Feedback
	q.Score = &score
	q.Answered = true
	q.TimeSpentSec = m.elapsedSec - m.questionStartSec
	m.submitting = false
	return nil
}

// Advance moves to the next question, or completes the session when the
// current question is the last one. It requires the current question to be
// answered. Returns true when the session transitioned to Completed.
func (m *Machine) Advance() (bool, error) {
	if err := m.requireActive(); err != nil {
		return false, err
	}
	if m.submitting {
		return false, ErrSubmissionInFlight
	}
	if !m.questions[m.current].Answered {
		return false, ErrNotAnswered
	}
	return m.stepForward()
}

// Skip abandons the current unanswered question permanently and otherwise
// behaves like Advance. A skipped question never re-enters the answer flow.
func (m *Machine) Skip() (bool, error) {
	if err := m.requireActive(); err != nil {
		return false, err
	}
	if m.submitting {
		return false, ErrSubmissionInFlight
	}
	if m.questions[m.current].Answered {
		return false, ErrAlreadyAnswered
	}
	return m.stepForward()
}

func (m *Machine) stepForward() (bool, error) {
	if m.current == len(m.questions)-1 {
		m.status = StatusCompleted
		return true, nil
	}
	m.current++
	m.questionStartSec = m.elapsedSec
	return false, nil
}

func (m *Machine) Pause() error {
	if err := m.requireActive(); err != nil {
		return err
	}
	m.status = StatusPaused
	return nil
}

func (m *Machine) Resume() error {
	switch m.status {
	case StatusPaused:
		m.status = StatusActive
		return nil
	case StatusNotStarted:
		return ErrNotStarted
	case StatusCompleted:
		return ErrCompleted
	default:
		return ErrNotPaused
	}
}

// JumpTo revisits an already answered question (or the current one). Jumping
// ahead to unanswered questions is not allowed.
func (m *Machine) JumpTo(index int) error {
	if err := m.requireActive(); err != nil {
		return err
	}
	if m.submitting {
		return ErrSubmissionInFlight
	}
	if index < 0 || index >= len(m.questions) {
		return ErrInvalidIndex
	}
	if index != m.current && !m.questions[index].Answered {
		return ErrJumpAhead
	}
	if index != m.current {
		m.current = index
		m.questionStartSec = m.elapsedSec
	}
	return nil
}

// Tick accrues one second of elapsed time. Callers invoke it once per second
// of wall-clock time; it is a no-op while paused or completed.
func (m *Machine) Tick() {
	if m.status == StatusActive {
		m.elapsedSec++
	}
}

// AverageScore is the arithmetic mean of the answered questions' scores,
// rounded to one decimal place. Skipped questions are ignored; with zero
// answered questions it is 0.
func (m *Machine) AverageScore() float64 {
	sum, n := 0.0, 0
	for i := range m.questions {
		if m.questions[i].Answered && m.questions[i].Score != nil {
			sum += *m.questions[i].Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}

func (m *Machine) requireActive() error {
	switch m.status {
	case StatusNotStarted:
		return ErrNotStarted
	case StatusCompleted:
		return ErrCompleted
	case StatusPaused:
		return ErrPaused
	}
	return nil
}

func (m *Machine) Config() SessionConfig { return m.config }
func (m *Machine) Status() Status        { return m.status }
func (m *Machine) CurrentIndex() int     { return m.current }
func (m *Machine) StartTime() time.Time  { return m.startTime }
func (m *Machine) ElapsedSeconds() int   { return m.elapsedSec }
func (m *Machine) Submitting() bool      { return m.submitting }

func (m *Machine) CurrentQuestion() Question {
	return m.questions[m.current]
}

// Questions returns a copy of the question sequence.
func (m *Machine) Questions() []Question {
	out := make([]Question, len(m.questions))
	copy(out, m.questions)
	return out
}

package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/engine"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/fallback"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/models"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/oracle"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/provider"
)

type fakeStore struct {
	mu        sync.Mutex
	sessions  map[string]*models.InterviewSession
	failAll   bool
	answers   int
	completed int
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*models.InterviewSession)}
}

func (f *fakeStore) CreateSession(session *models.InterviewSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("store unavailable")
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeStore) SaveAnswer(sessionID string, orderNum int, answer, feedback string, score float64, timeSpentSec int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("store unavailable")
	}
	session, ok := f.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range session.Questions {
		if session.Questions[i].OrderNum == orderNum {
			session.Questions[i].Answer = answer
			session.Questions[i].Feedback = feedback
			session.Questions[i].Score = &score
			session.Questions[i].Answered = true
			session.Questions[i].TimeSpentSec = timeSpentSec
		}
	}
	f.answers++
	return nil
}

func (f *fakeStore) CompleteSession(sessionID string, overallScore float64, feedback string, durationSec int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("store unavailable")
	}
	session, ok := f.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.Status = models.SessionStatusCompleted
	session.OverallScore = overallScore
	session.Feedback = feedback
	session.DurationSec = durationSec
	f.completed++
	return nil
}

func (f *fakeStore) GetSession(sessionID string) (*models.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeStore) ListSessions() ([]models.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.InterviewSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	return out, nil
}

type fakeSink struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeSink) Publish(sessionID, eventType string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func (f *fakeSink) has(eventType string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e == eventType {
			return true
		}
	}
	return false
}

type failingProvider struct{}

func (failingProvider) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("provider unreachable")
}

func newTestService(t *testing.T, store *fakeStore, sink *fakeSink) *InterviewService {
	t.Helper()
	bank, err := fallback.Load()
	require.NoError(t, err)

	registry := provider.NewRegistry(provider.Config{})
	registry.Register(provider.Metadata{ID: "offline", Name: "Offline"}, failingProvider{})

	svc := NewInterviewService(oracle.NewClient(registry, bank), store, sink)
	t.Cleanup(svc.Close)
	return svc
}

func createSession(t *testing.T, svc *InterviewService, difficulty string) *SessionView {
	t.Helper()
	view, err := svc.CreateSession(context.Background(), CreateSessionInput{
		Role:       "software engineer",
		Type:       "technical",
		Difficulty: difficulty,
		Mode:       "text",
		Provider:   "offline",
	})
	require.NoError(t, err)
	return view
}

func TestCreateSessionGeneratesQuestionsByDifficulty(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)

	beginner := createSession(t, svc, "beginner")
	assert.Len(t, beginner.Questions, 4)

	advanced := createSession(t, svc, "advanced")
	assert.Len(t, advanced.Questions, 6)

	assert.Equal(t, oracle.SourceFallback, beginner.QuestionSource)
	assert.Equal(t, engine.StatusActive, beginner.Status)
	assert.True(t, sink.has("session_started"))
}

func TestCreateSessionPersistsSkeleton(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)

	view := createSession(t, svc, "beginner")

	record, err := store.GetSession(view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusInProgress, record.Status)
	assert.Equal(t, 4, record.QuestionCount)
	assert.Len(t, record.Questions, 4)
}

func TestCreateSessionNormalizesBadInput(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)

	view, err := svc.CreateSession(context.Background(), CreateSessionInput{
		Role:       "software engineer",
		Type:       "interpretive-dance",
		Difficulty: "impossible",
		Mode:       "semaphore",
		Provider:   "no-such-provider",
	})
	require.NoError(t, err)

	assert.Equal(t, engine.TypeGeneral, view.Type)
	assert.Equal(t, engine.DifficultyIntermediate, view.Difficulty)
	assert.Equal(t, engine.ModeText, view.Mode)
	assert.Equal(t, provider.DefaultProvider, view.Provider)
}

func TestCreateSessionSurvivesPersistFailure(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	store.failAll = true
	svc := newTestService(t, store, sink)

	view := createSession(t, svc, "beginner")
	assert.NotEmpty(t, view.PersistError)
	assert.Equal(t, engine.StatusActive, view.Status)
	assert.True(t, sink.has("persist_failed"))

	// The session is live despite the store being down.
	got, err := svc.GetSession(view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)
}

func TestSubmitAnswerRecordsHeuristicResult(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)
	view := createSession(t, svc, "beginner")

	answer := "First I reproduce the issue, for example with a failing test, and finally I fix it."
	result, err := svc.SubmitAnswer(context.Background(), view.ID, answer)
	require.NoError(t, err)

	expected := engine.HeuristicEvaluate(answer)
	assert.Equal(t, oracle.SourceFallback, result.Source)
	assert.True(t, result.Question.Answered)
	require.NotNil(t, result.Question.Score)
	assert.Equal(t, expected.Score, *result.Question.Score)
	assert.Equal(t, expected.Feedback, result.Question.Feedback)
	assert.Equal(t, 1, store.answers)
	assert.True(t, sink.has("question_answered"))
}

func TestSubmitAnswerTwiceOnSameQuestionFails(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)
	view := createSession(t, svc, "beginner")

	_, err := svc.SubmitAnswer(context.Background(), view.ID, "my answer")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(context.Background(), view.ID, "another answer")
	assert.ErrorIs(t, err, engine.ErrAlreadyAnswered)
}

func TestAdvanceThroughToCompletion(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)
	view := createSession(t, svc, "beginner")

	var final *SessionView
	for i := 0; i < 4; i++ {
		_, err := svc.SubmitAnswer(context.Background(), view.ID, "A reasonable answer with an example from experience.")
		require.NoError(t, err)
		next, err := svc.Advance(view.ID)
		require.NoError(t, err)
		final = next
	}

	assert.Equal(t, engine.StatusCompleted, final.Status)
	require.NotNil(t, final.OverallScore)
	assert.Greater(t, *final.OverallScore, 0.0)
	assert.NotEmpty(t, final.Feedback)
	assert.Equal(t, 1, store.completed)
	assert.True(t, sink.has("session_completed"))

	// The live machine is gone; only the persisted record remains.
	record, err := svc.GetSession(view.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusCompleted, record.Status)
}

func TestSkipAllQuestionsYieldsZeroAggregate(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)
	view := createSession(t, svc, "beginner")

	var final *SessionView
	for i := 0; i < 4; i++ {
		next, err := svc.Skip(view.ID)
		require.NoError(t, err)
		final = next
	}

	assert.Equal(t, engine.StatusCompleted, final.Status)
	require.NotNil(t, final.OverallScore)
	assert.Equal(t, 0.0, *final.OverallScore)
}

func TestCompletionSurvivesPersistFailure(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)
	view := createSession(t, svc, "beginner")

	store.mu.Lock()
	store.failAll = true
	store.mu.Unlock()

	var final *SessionView
	for i := 0; i < 4; i++ {
		next, err := svc.Skip(view.ID)
		require.NoError(t, err)
		final = next
	}

	assert.Equal(t, engine.StatusCompleted, final.Status)
	assert.NotEmpty(t, final.PersistError)
	assert.True(t, sink.has("session_completed"))
}

func TestPauseResumeAndJump(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)
	view := createSession(t, svc, "beginner")

	paused, err := svc.Pause(view.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusPaused, paused.Status)

	_, err = svc.SubmitAnswer(context.Background(), view.ID, "answer while paused")
	assert.ErrorIs(t, err, engine.ErrPaused)

	resumed, err := svc.Resume(view.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusActive, resumed.Status)

	_, err = svc.JumpTo(view.ID, 2)
	assert.ErrorIs(t, err, engine.ErrJumpAhead)
}

func TestOperationsOnUnknownSession(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)

	_, err := svc.GetSession("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.SubmitAnswer(context.Background(), "missing", "answer")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Advance("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResumeSessionRebuildsMachine(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)
	view := createSession(t, svc, "beginner")

	_, err := svc.SubmitAnswer(context.Background(), view.ID, "my first answer")
	require.NoError(t, err)
	_, err = svc.Advance(view.ID)
	require.NoError(t, err)

	// Simulate a process restart: the live machine disappears, the store keeps
	// the partial session.
	svc.Close()

	restored, err := svc.ResumeSession(view.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusActive, restored.Status)
	assert.Equal(t, 1, restored.CurrentIndex)
	assert.True(t, restored.Questions[0].Answered)
	assert.False(t, restored.Questions[1].Answered)
}

func TestResumeSessionRejectsLiveAndCompleted(t *testing.T) {
	store, sink := newFakeStore(), &fakeSink{}
	svc := newTestService(t, store, sink)
	view := createSession(t, svc, "beginner")

	_, err := svc.ResumeSession(view.ID)
	assert.ErrorIs(t, err, ErrSessionLive)

	for i := 0; i < 4; i++ {
		_, err := svc.Skip(view.ID)
		require.NoError(t, err)
	}

	_, err = svc.ResumeSession(view.ID)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

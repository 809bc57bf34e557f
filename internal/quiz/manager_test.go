package quiz_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoo24/quizbank/internal/bank"
	apperrors "github.com/medoo24/quizbank/internal/errors"
	"github.com/medoo24/quizbank/internal/hierarchy"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/quiz"
)

func seededEngine(t *testing.T) *hierarchy.Engine {
	t.Helper()

	type rawQ struct {
		ID            string   `json:"id"`
		Term          string   `json:"term"`
		Subject       string   `json:"subject"`
		Lesson        string   `json:"lesson"`
		Chapter       string   `json:"chapter"`
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectOption int      `json:"correct_option_id"`
	}

	qs := []rawQ{
		{"1", "T1", "S1", "L1", "C1", "one", []string{"a", "b"}, 0},
		{"2", "T1", "S1", "L1", "C1", "two", []string{"a", "b"}, 1},
		{"3", "T1", "S2", "L1", "C1", "three", []string{"a", "b"}, 0},
		{"4", "T2", "S1", "L1", "C1", "four", []string{"a", "b"}, 0},
	}
	raw, err := json.Marshal(qs)
	require.NoError(t, err)

	e := hierarchy.New()
	result := e.Ingest(context.Background(), e.BeginIngest(),
		[]bank.FileSet{{Filename: "f.json", Raw: raw}}, nil, nil)
	require.Equal(t, 4, result.Loaded)

	// Mark question 1 solved so view scopes have something to filter on.
	e.UpdateStatus(models.QuestionKey{FileID: "f.json", QuestionID: "1"}, true)
	return e
}

func newManager(t *testing.T, e *hierarchy.Engine) *quiz.Manager {
	t.Helper()
	m := quiz.NewManager(e, nil, models.QuizConfig{Count: 20, TimeLimitMinutes: 30})
	t.Cleanup(m.CloseAll)
	return m
}

func TestManagerCreate_ScopesCandidates(t *testing.T) {
	e := seededEngine(t)
	m := newManager(t, e)
	ctx := context.Background()

	all, err := m.Create(ctx, models.QuizScope{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Snapshot().Candidates)

	term, err := m.Create(ctx, models.QuizScope{Path: []string{"T1"}})
	require.NoError(t, err)
	assert.Equal(t, 3, term.Snapshot().Candidates)

	unsolved, err := m.Create(ctx, models.QuizScope{Path: []string{"T1"}, View: "solve"})
	require.NoError(t, err)
	assert.Equal(t, 2, unsolved.Snapshot().Candidates, "solve view drops the solved question")

	group, err := m.Create(ctx, models.QuizScope{Path: []string{"T1"}, Group: "S2"})
	require.NoError(t, err)
	assert.Equal(t, 1, group.Snapshot().Candidates)
}

func TestManagerCreate_EmptyScopeFails(t *testing.T) {
	e := seededEngine(t)
	m := newManager(t, e)

	_, err := m.Create(context.Background(), models.QuizScope{Path: []string{"missing-term"}})
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNoQuestions, appErr.Code)

	_, err = m.Create(context.Background(), models.QuizScope{View: "not-a-view"})
	require.Error(t, err, "invalid view is rejected before scope resolution")
}

func TestManagerLifecycle(t *testing.T) {
	e := seededEngine(t)
	m := newManager(t, e)
	ctx := context.Background()

	s, err := m.Create(ctx, models.QuizScope{})
	require.NoError(t, err)

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Close(s.ID()))
	_, err = m.Get(s.ID())
	assert.Error(t, err, "closed sessions are forgotten")
	assert.Error(t, m.Close(s.ID()), "double close fails with not found")
}

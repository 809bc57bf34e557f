package quiz

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/medoo24/quizbank/internal/errors"
	"github.com/medoo24/quizbank/internal/hierarchy"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/selection"
)

// Manager creates sessions over the hierarchy engine and tracks the live
// ones by id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	engine   *hierarchy.Engine
	submit   SubmitFunc
	defaults models.QuizConfig
	log      *logger.Logger
}

// NewManager creates a quiz session manager. The submit callback receives the
// progress writes of every scored session.
func NewManager(engine *hierarchy.Engine, submit SubmitFunc, defaults models.QuizConfig) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		engine:   engine,
		submit:   submit,
		defaults: defaults,
		log:      logger.Default().WithPrefix("quiz"),
	}
}

// Defaults returns the configured default count and time limit.
func (m *Manager) Defaults() models.QuizConfig {
	return m.defaults
}

// Create resolves the scope to a candidate list and opens a configuring
// session over it. An empty candidate set aborts with NO_QUESTIONS_AVAILABLE
// and no session is created.
func (m *Manager) Create(ctx context.Context, scope models.QuizScope) (*Session, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	view, err := selection.ParseView(scope.View)
	if err != nil {
		return nil, err
	}

	candidates := m.engine.Query(scope.Path)
	if scope.Group != "" {
		groups := selection.Apply(candidates, len(scope.Path), view, "")
		candidates = nil
		for _, g := range groups {
			if g.Label == scope.Group {
				candidates = g.Questions
				break
			}
		}
	} else if view != selection.ViewReview {
		filtered := candidates[:0:0]
		for _, q := range candidates {
			if view.Matches(q) {
				filtered = append(filtered, q)
			}
		}
		candidates = filtered
	}

	if len(candidates) == 0 {
		return nil, errors.NewNoQuestionsError(scopeLabel(scope))
	}

	s := &Session{
		id:         uuid.NewString(),
		scope:      scope,
		state:      models.QuizConfiguring,
		candidates: candidates,
		submit:     m.submit,
		log:        m.log,
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	log.Info("quiz session created: id=%s, scope=%s, candidates=%d", s.id, scopeLabel(scope), len(candidates))
	return s, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("quiz session", id)
	}
	return s, nil
}

// Close shuts a session down and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError("quiz session", id)
	}
	s.Close()
	m.log.Info("quiz session closed: id=%s", id)
	return nil
}

// CloseAll shuts down every live session; used on server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = map[string]*Session{}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

func scopeLabel(scope models.QuizScope) string {
	parts := append([]string{}, scope.Path...)
	if scope.Group != "" {
		parts = append(parts, scope.Group)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "/")
}

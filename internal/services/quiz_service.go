package services

import (
	"context"

	"github.com/medoo24/quizbank/internal/errors"
	"github.com/medoo24/quizbank/internal/hierarchy"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/quiz"
	"github.com/medoo24/quizbank/internal/repository"
)

// QuizService drives the timed quiz session lifecycle.
type QuizService interface {
	Create(ctx context.Context, scope models.QuizScope) (models.QuizSnapshot, error)
	Start(ctx context.Context, id string, cfg models.QuizConfig) (models.QuizSnapshot, error)
	Get(ctx context.Context, id string) (models.QuizSnapshot, error)
	Answer(ctx context.Context, id string, key models.QuestionKey, optionIndex int) (models.QuizSnapshot, error)
	Next(ctx context.Context, id string) (models.QuizSnapshot, error)
	Prev(ctx context.Context, id string) (models.QuizSnapshot, error)
	Submit(ctx context.Context, id string) (models.QuizSnapshot, error)
	Review(ctx context.Context, id string) (models.QuizSnapshot, error)
	Close(ctx context.Context, id string) error
	Shutdown()
}

type quizService struct {
	manager *quiz.Manager
}

// NewQuizService creates a new QuizService. Scored sessions write their
// results through the progress repository before the tree is updated, so a
// failed batch leaves the in-memory stats untouched.
func NewQuizService(engine *hierarchy.Engine, progressRepo repository.ProgressRepository, defaults models.QuizConfig) QuizService {
	submit := func(ctx context.Context, writes []models.ProgressRecord) error {
		if err := progressRepo.PutBatch(ctx, writes); err != nil {
			return errors.NewPersistenceError(err)
		}
		for _, w := range writes {
			engine.UpdateStatus(w.Key(), w.Correct)
		}
		return nil
	}
	return &quizService{manager: quiz.NewManager(engine, submit, defaults)}
}

func (s *quizService) Create(ctx context.Context, scope models.QuizScope) (models.QuizSnapshot, error) {
	session, err := s.manager.Create(ctx, scope)
	if err != nil {
		return models.QuizSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Start arms the session. Zero-valued config fields fall back to the
// configured defaults.
func (s *quizService) Start(ctx context.Context, id string, cfg models.QuizConfig) (models.QuizSnapshot, error) {
	log := logger.FromContext(ctx)

	session, err := s.manager.Get(id)
	if err != nil {
		return models.QuizSnapshot{}, err
	}
	defaults := s.manager.Defaults()
	if cfg.Count == 0 {
		cfg.Count = defaults.Count
	}
	if cfg.TimeLimitMinutes == 0 {
		cfg.TimeLimitMinutes = defaults.TimeLimitMinutes
	}
	if err := session.Start(cfg); err != nil {
		return models.QuizSnapshot{}, err
	}
	log.Debug("quiz session started: id=%s, count=%d, minutes=%d", id, cfg.Count, cfg.TimeLimitMinutes)
	return session.Snapshot(), nil
}

func (s *quizService) Get(ctx context.Context, id string) (models.QuizSnapshot, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return models.QuizSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *quizService) Answer(ctx context.Context, id string, key models.QuestionKey, optionIndex int) (models.QuizSnapshot, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return models.QuizSnapshot{}, err
	}
	if err := session.Answer(key, optionIndex); err != nil {
		return models.QuizSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *quizService) Next(ctx context.Context, id string) (models.QuizSnapshot, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return models.QuizSnapshot{}, err
	}
	if err := session.Next(); err != nil {
		return models.QuizSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *quizService) Prev(ctx context.Context, id string) (models.QuizSnapshot, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return models.QuizSnapshot{}, err
	}
	if err := session.Prev(); err != nil {
		return models.QuizSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *quizService) Submit(ctx context.Context, id string) (models.QuizSnapshot, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return models.QuizSnapshot{}, err
	}
	if err := session.Submit(ctx); err != nil {
		return models.QuizSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *quizService) Review(ctx context.Context, id string) (models.QuizSnapshot, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return models.QuizSnapshot{}, err
	}
	if err := session.Review(); err != nil {
		return models.QuizSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *quizService) Close(ctx context.Context, id string) error {
	return s.manager.Close(id)
}

// Shutdown closes every live session; used on server shutdown.
func (s *quizService) Shutdown() {
	s.manager.CloseAll()
}

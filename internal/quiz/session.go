package quiz

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/medoo24/quizbank/internal/errors"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
)

// SubmitFunc receives one progress-write request per sampled question when a
// session is scored. Failures propagate to the submitter; already-emitted
// writes are never undone.
type SubmitFunc func(ctx context.Context, writes []models.ProgressRecord) error

// Session is one timed quiz run: configuring → active → submitting → scored
// (→ reviewing). Closing from any state cancels the countdown and discards
// the answer map.
type Session struct {
	id    string
	scope models.QuizScope

	mu         sync.Mutex
	state      string
	candidates []models.Question
	questions  []models.Question
	answers    map[models.QuestionKey]int
	current    int
	remaining  int
	stopTick   chan struct{}
	result     *models.QuizResult

	submit SubmitFunc
	log    *logger.Logger
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns a point-in-time view of the session.
func (s *Session) Snapshot() models.QuizSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.QuizSnapshot{
		ID:            s.id,
		State:         s.state,
		Candidates:    len(s.candidates),
		Total:         len(s.questions),
		CurrentIndex:  s.current,
		Answered:      len(s.answers),
		TimeRemaining: s.remaining,
		Result:        s.result,
	}
	if s.state == models.QuizActive && s.current < len(s.questions) {
		q := s.questions[s.current]
		snap.Current = &q
		snap.IsLastQuestion = s.current == len(s.questions)-1
	}
	return snap
}

// Start samples min(count, candidates) questions without replacement, fixes
// their order, arms the countdown, and begins ticking once per second.
func (s *Session) Start(cfg models.QuizConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.QuizConfiguring {
		return errors.NewConflictError("quiz session is not in configuring state")
	}
	if cfg.Count <= 0 {
		return errors.NewValidationError("count", "must be a positive integer")
	}
	if cfg.TimeLimitMinutes <= 0 {
		return errors.NewValidationError("time_limit_minutes", "must be a positive integer")
	}

	n := cfg.Count
	if n > len(s.candidates) {
		n = len(s.candidates)
	}

	pool := make([]models.Question, len(s.candidates))
	copy(pool, s.candidates)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	s.questions = pool[:n]
	s.answers = map[models.QuestionKey]int{}
	s.current = 0
	s.remaining = cfg.TimeLimitMinutes * 60
	s.state = models.QuizActive
	s.stopTick = make(chan struct{})

	go s.runTicker(s.stopTick)

	s.log.Info("quiz started: id=%s, questions=%d, time_limit=%dm", s.id, n, cfg.TimeLimitMinutes)
	return nil
}

func (s *Session) runTicker(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick(context.Background())
		}
	}
}

// tick advances the countdown. The expiry comparison happens before the
// decrement; decrement-then-compare would grant an extra tick near zero.
func (s *Session) tick(ctx context.Context) {
	s.mu.Lock()
	if s.state != models.QuizActive {
		s.mu.Unlock()
		return
	}
	if s.remaining <= 0 {
		s.log.Info("quiz time expired, auto-submitting: id=%s", s.id)
		s.submitLocked(ctx)
		return
	}
	s.remaining--
	s.mu.Unlock()
}

// Answer records or overwrites the selection for a sampled question.
// Re-answering before submission replaces the prior choice.
func (s *Session) Answer(key models.QuestionKey, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.QuizActive {
		return errors.NewConflictError("quiz session is not active")
	}
	q, ok := s.sampled(key)
	if !ok {
		return errors.NewNotFoundError("quiz question", key.String())
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return errors.NewValidationError("option", "index out of range")
	}
	s.answers[key] = optionIndex
	return nil
}

func (s *Session) sampled(key models.QuestionKey) (models.Question, bool) {
	for _, q := range s.questions {
		if q.Key() == key {
			return q, true
		}
	}
	return models.Question{}, false
}

// Next moves to the next question; no wraparound past the last one.
func (s *Session) Next() error {
	return s.move(1)
}

// Prev moves to the previous question; no wraparound before the first one.
func (s *Session) Prev() error {
	return s.move(-1)
}

func (s *Session) move(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.QuizActive {
		return errors.NewConflictError("quiz session is not active")
	}
	next := s.current + delta
	if next < 0 || next > len(s.questions)-1 {
		return nil
	}
	s.current = next
	return nil
}

// Submit scores the session with whatever answers were recorded so far.
// Unanswered questions count as incorrect.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != models.QuizActive {
		s.mu.Unlock()
		return errors.NewConflictError("quiz session is not active")
	}
	return s.submitLocked(ctx)
}

// submitLocked transitions active → submitting → scored. It is called with
// the lock held and releases it before invoking the submit callback so the
// callback can re-enter engine/session reads.
func (s *Session) submitLocked(ctx context.Context) error {
	s.state = models.QuizSubmitting
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}

	result := &models.QuizResult{Total: len(s.questions)}
	writes := make([]models.ProgressRecord, 0, len(s.questions))
	for _, q := range s.questions {
		selected, answered := s.answers[q.Key()]
		if !answered {
			selected = models.NoSelection
		}
		correct := answered && selected == q.CorrectOption
		if correct {
			result.Correct++
		}
		result.Outcomes = append(result.Outcomes, models.QuizOutcome{
			Question:       q,
			SelectedOption: selected,
			Answered:       answered,
			Correct:        correct,
		})
		writes = append(writes, models.ProgressRecord{
			FileID:         q.FileID,
			QuestionID:     q.ID,
			Correct:        correct,
			SelectedOption: selected,
		})
	}
	if result.Total > 0 {
		result.AccuracyPct = int(math.Round(float64(result.Correct) / float64(result.Total) * 100))
	}
	s.result = result
	s.mu.Unlock()

	var err error
	if s.submit != nil {
		err = s.submit(ctx, writes)
		if err != nil {
			s.log.Error("failed to persist quiz results: id=%s: %v", s.id, err)
		}
	}

	s.mu.Lock()
	s.state = models.QuizScored
	s.mu.Unlock()

	s.log.Info("quiz scored: id=%s, correct=%d/%d, accuracy=%d%%",
		s.id, result.Correct, result.Total, result.AccuracyPct)
	return err
}

// Review transitions a scored session to reviewing. It carries no extra
// state; the caller switches the outer view with the session's scope.
func (s *Session) Review() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.QuizScored {
		return errors.NewConflictError("quiz session is not scored")
	}
	s.state = models.QuizReviewing
	return nil
}

// Scope returns the scope the session was created for.
func (s *Session) Scope() models.QuizScope {
	return s.scope
}

// Close cancels the countdown and discards the answer map. Already-emitted
// progress writes stay.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
	s.answers = nil
	s.state = ""
}

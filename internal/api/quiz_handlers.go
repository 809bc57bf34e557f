package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
)

// handleCreateQuiz opens a configuring session over the requested scope.
// 409 NO_QUESTIONS_AVAILABLE when the scope resolves to zero questions.
func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req struct {
		Path  []string `json:"path"`
		Group string   `json:"group"`
		View  string   `json:"view"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	scope := models.QuizScope{Path: req.Path, Group: req.Group, View: req.View}
	snap, err := s.Quiz.Create(r.Context(), scope)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("quiz created: id=%s, candidates=%d", snap.ID, snap.Candidates)
	respondJSON(w, r, http.StatusCreated, snap)
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Count            int `json:"count"`
		TimeLimitMinutes int `json:"time_limit_minutes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.Quiz.Start(r.Context(), id, models.QuizConfig{
		Count:            req.Count,
		TimeLimitMinutes: req.TimeLimitMinutes,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Quiz.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		questionRef
		Option int `json:"option"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	key, err := req.key()
	if err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.Quiz.Answer(r.Context(), id, key, req.Option)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleQuizNext(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Quiz.Next(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleQuizPrev(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Quiz.Prev(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Quiz.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleQuizReview(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Quiz.Review(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleCloseQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Quiz.Close(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"closed": id})
}

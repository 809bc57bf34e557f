package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/files", s.handleListFiles)
		r.Post("/files", s.handleUploadFile)
		r.Delete("/files/{filename}", s.handleDeleteFile)
		r.Post("/files/reload", s.handleReload)

		r.Get("/tree", s.handleTree)
		r.Get("/questions", s.handleQuestions)
		r.Post("/questions/answer", s.handleAnswerQuestion)
		r.Post("/questions/favorite", s.handleToggleFavorite)
		r.Get("/progress", s.handleProgress)
		r.Get("/dashboard", s.handleDashboard)

		r.Get("/settings/{key}", s.handleGetSetting)
		r.Put("/settings/{key}", s.handlePutSetting)

		r.Post("/quiz", s.handleCreateQuiz)
		r.Route("/quiz/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetQuiz)
			r.Post("/start", s.handleStartQuiz)
			r.Post("/answer", s.handleQuizAnswer)
			r.Post("/next", s.handleQuizNext)
			r.Post("/prev", s.handleQuizPrev)
			r.Post("/submit", s.handleQuizSubmit)
			r.Post("/review", s.handleQuizReview)
			r.Delete("/", s.handleCloseQuiz)
		})
	})

	return r
}

package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medoo24/quizbank/internal/db"
	"github.com/medoo24/quizbank/internal/errors"
	"github.com/medoo24/quizbank/internal/jobs"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/services"
)

type Server struct {
	DB             *db.DB
	Study          services.StudyService
	Quiz           services.QuizService
	Queue          jobs.JobQueue
	MaxUploadBytes int64
}

type questionRef struct {
	FileID     string `json:"file_id"`
	QuestionID string `json:"question_id"`
}

func (ref questionRef) key() (models.QuestionKey, error) {
	if ref.FileID == "" {
		return models.QuestionKey{}, errors.NewValidationError("file_id", "must not be empty")
	}
	if ref.QuestionID == "" {
		return models.QuestionKey{}, errors.NewValidationError("question_id", "must not be empty")
	}
	return models.QuestionKey{FileID: ref.FileID, QuestionID: ref.QuestionID}, nil
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.Study.ListFiles(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"files": files})
}

// handleUploadFile accepts a multipart upload under the "file" field, stores
// it, and queues a background reload.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid multipart upload: "+err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("missing file field"))
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read upload: "+err.Error()))
		return
	}

	if err := s.Study.ImportFile(r.Context(), header.Filename, payload); err != nil {
		handleError(w, r, err)
		return
	}

	s.Queue.EnqueueReload("upload")
	log.Info("file uploaded and reload queued: filename=%s", header.Filename)
	respondJSON(w, r, http.StatusCreated, map[string]any{"filename": header.Filename})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if err := s.Study.DeleteFile(r.Context(), filename); err != nil {
		handleError(w, r, err)
		return
	}
	s.Queue.EnqueueReload("delete")
	respondJSON(w, r, http.StatusOK, map[string]any{"deleted": filename})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.Queue.EnqueueReload("manual")
	respondJSON(w, r, http.StatusAccepted, map[string]any{"queued": true})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{"tree": s.Study.Tree(r.Context())})
}

// handleQuestions lists the questions under a taxonomy path, filtered by view
// and search text, grouped by the next taxonomy level.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := parsePath(q.Get("path"))
	view := q.Get("view")
	search := q.Get("q")

	groups, err := s.Study.Browse(r.Context(), path, view, search)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"groups": groups})
}

func (s *Server) handleAnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		questionRef
		SelectedOption int `json:"selected_option"`
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

	updated, err := s.Study.AnswerQuestion(r.Context(), key, req.SelectedOption)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"question": updated})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req questionRef
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	key, err := req.key()
	if err != nil {
		handleError(w, r, err)
		return
	}

	favorite, err := s.Study.ToggleFavorite(r.Context(), key)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"favorite": favorite})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ProgressFilter{
		FileID:      q.Get("file_id"),
		CorrectOnly: q.Get("filter") == "correct",
		WrongOnly:   q.Get("filter") == "wrong",
	}
	filter.Limit = intParam(q.Get("limit"), 100)
	filter.Offset = intParam(q.Get("offset"), 0)

	records, err := s.Study.History(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"progress": records})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.Study.Dashboard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, dashboard)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	setting, err := s.Study.GetSetting(r.Context(), key)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, setting)
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Study.PutSetting(r.Context(), key, req.Value); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"key": key, "value": req.Value})
}

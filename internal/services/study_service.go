package services

import (
	"context"
	"time"

	"github.com/medoo24/quizbank/internal/bank"
	"github.com/medoo24/quizbank/internal/errors"
	"github.com/medoo24/quizbank/internal/hierarchy"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/repository"
	"github.com/medoo24/quizbank/internal/selection"
)

// lastReloadKey records when the question set was last rebuilt. The write is
// best-effort: the in-memory tree does not depend on it succeeding.
const lastReloadKey = "last_reload_at"

// StudyService handles question-bank loading, browsing, and per-question
// study state.
type StudyService interface {
	ImportFile(ctx context.Context, filename string, payload []byte) error
	DeleteFile(ctx context.Context, filename string) error
	ListFiles(ctx context.Context) ([]models.QuestionFile, error)
	ReloadAll(ctx context.Context) (hierarchy.IngestResult, error)
	Tree(ctx context.Context) []models.TreeNode
	Browse(ctx context.Context, path []string, view, search string) ([]selection.Group, error)
	AnswerQuestion(ctx context.Context, key models.QuestionKey, selectedOption int) (*models.Question, error)
	ToggleFavorite(ctx context.Context, key models.QuestionKey) (bool, error)
	History(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressRecord, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	PutSetting(ctx context.Context, key, value string) error
}

type studyService struct {
	engine       *hierarchy.Engine
	fileRepo     repository.QuestionFileRepository
	progressRepo repository.ProgressRepository
	favoriteRepo repository.FavoriteRepository
	settingsRepo repository.SettingsRepository
}

// NewStudyService creates a new StudyService
func NewStudyService(engine *hierarchy.Engine,
	fileRepo repository.QuestionFileRepository,
	progressRepo repository.ProgressRepository,
	favoriteRepo repository.FavoriteRepository,
	settingsRepo repository.SettingsRepository) StudyService {
	return &studyService{
		engine:       engine,
		fileRepo:     fileRepo,
		progressRepo: progressRepo,
		favoriteRepo: favoriteRepo,
		settingsRepo: settingsRepo,
	}
}

// ImportFile shape-checks an uploaded question file and caches it. The file
// only becomes visible after the next reload.
func (s *studyService) ImportFile(ctx context.Context, filename string, payload []byte) error {
	log := logger.FromContext(ctx)
	log.Debug("importing question file: filename=%s, bytes=%d", filename, len(payload))

	if filename == "" {
		return errors.NewValidationError("filename", "must not be empty")
	}
	questions, err := bank.ParseFile(ctx, filename, payload)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return errors.NewValidationError("payload", "file contains no valid questions")
	}

	if err := s.fileRepo.Put(ctx, models.QuestionFile{Filename: filename, Payload: payload}); err != nil {
		log.Error("failed to store question file: %v", err)
		return errors.NewPersistenceError(err)
	}

	log.Info("question file imported: filename=%s, questions=%d", filename, len(questions))
	return nil
}

func (s *studyService) DeleteFile(ctx context.Context, filename string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting question file: filename=%s", filename)

	f, err := s.fileRepo.Get(ctx, filename)
	if err != nil {
		return errors.NewPersistenceError(err)
	}
	if f == nil {
		return errors.NewNotFoundError("question file", filename)
	}
	if err := s.fileRepo.Delete(ctx, filename); err != nil {
		return errors.NewPersistenceError(err)
	}
	log.Info("question file deleted: filename=%s", filename)
	return nil
}

func (s *studyService) ListFiles(ctx context.Context) ([]models.QuestionFile, error) {
	files, err := s.fileRepo.GetAll(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError(err)
	}
	// Strip payloads; listings only need metadata.
	for i := range files {
		files[i].Payload = nil
	}
	return files, nil
}

// ReloadAll rebuilds the aggregation tree from every cached file plus the
// current progress and favorite snapshots. Malformed files are reported and
// skipped; the rebuild proceeds with the rest.
func (s *studyService) ReloadAll(ctx context.Context) (hierarchy.IngestResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("reloading question set")

	ticket := s.engine.BeginIngest()

	files, err := s.fileRepo.GetAll(ctx)
	if err != nil {
		log.Error("failed to read question files: %v", err)
		return hierarchy.IngestResult{}, errors.NewPersistenceError(err)
	}
	progressRecords, err := s.progressRepo.GetAll(ctx)
	if err != nil {
		log.Error("failed to read progress snapshot: %v", err)
		return hierarchy.IngestResult{}, errors.NewPersistenceError(err)
	}
	favoriteRecords, err := s.favoriteRepo.GetAll(ctx)
	if err != nil {
		log.Error("failed to read favorite snapshot: %v", err)
		return hierarchy.IngestResult{}, errors.NewPersistenceError(err)
	}

	fileSets := make([]bank.FileSet, 0, len(files))
	for _, f := range files {
		fileSets = append(fileSets, bank.FileSet{Filename: f.Filename, Raw: f.Payload})
	}
	progress := make(map[models.QuestionKey]models.ProgressRecord, len(progressRecords))
	for _, p := range progressRecords {
		progress[p.Key()] = p
	}
	favorites := make(map[models.QuestionKey]struct{}, len(favoriteRecords))
	for _, f := range favoriteRecords {
		favorites[f.Key()] = struct{}{}
	}

	result := s.engine.Ingest(ctx, ticket, fileSets, progress, favorites)
	if result.Superseded {
		return result, nil
	}

	if err := s.settingsRepo.Put(ctx, models.Setting{
		Key:   lastReloadKey,
		Value: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		// The rebuilt tree stands on its own; only note the failure.
		log.Warn("failed to record reload time: %v", err)
	}

	return result, nil
}

func (s *studyService) Tree(ctx context.Context) []models.TreeNode {
	return s.engine.Tree()
}

// Browse returns the questions under the path, filtered by view and search
// text, grouped by the taxonomy level one below the path depth.
func (s *studyService) Browse(ctx context.Context, path []string, view, search string) ([]selection.Group, error) {
	log := logger.FromContext(ctx)
	log.Debug("browsing questions: path=%v, view=%s, search=%q", path, view, search)

	v, err := selection.ParseView(view)
	if err != nil {
		return nil, err
	}
	candidates := s.engine.Query(path)
	return selection.Apply(candidates, len(path), v, search), nil
}

// AnswerQuestion records an answer: the progress write happens first, and
// the in-memory tree is only mutated after it succeeds, so a storage failure
// leaves memory and disk consistent.
func (s *studyService) AnswerQuestion(ctx context.Context, key models.QuestionKey, selectedOption int) (*models.Question, error) {
	log := logger.FromContext(ctx)
	log.Debug("answering question: key=%s, selected=%d", key, selectedOption)

	q, ok := s.engine.Get(key)
	if !ok {
		return nil, errors.NewNotFoundError("question", key.String())
	}
	if selectedOption < 0 || selectedOption >= len(q.Options) {
		return nil, errors.NewValidationError("selected_option", "index out of range")
	}

	correct := selectedOption == q.CorrectOption
	record := models.ProgressRecord{
		FileID:         key.FileID,
		QuestionID:     key.QuestionID,
		Correct:        correct,
		SelectedOption: selectedOption,
	}
	if err := s.progressRepo.Put(ctx, record); err != nil {
		log.Error("failed to persist progress: %v", err)
		return nil, errors.NewPersistenceError(err)
	}

	s.engine.UpdateStatus(key, correct)

	updated, _ := s.engine.Get(key)
	log.Info("question answered: key=%s, correct=%t", key, correct)
	return &updated, nil
}

// ToggleFavorite flips the favorite mark, persisting before mutating memory.
// The returned state is the actual resulting state.
func (s *studyService) ToggleFavorite(ctx context.Context, key models.QuestionKey) (bool, error) {
	log := logger.FromContext(ctx)
	log.Debug("toggling favorite: key=%s", key)

	q, ok := s.engine.Get(key)
	if !ok {
		return false, errors.NewNotFoundError("question", key.String())
	}

	if q.Favorite {
		if err := s.favoriteRepo.Delete(ctx, key); err != nil {
			log.Error("failed to delete favorite: %v", err)
			return q.Favorite, errors.NewPersistenceError(err)
		}
	} else {
		record := models.FavoriteRecord{FileID: key.FileID, QuestionID: key.QuestionID}
		if err := s.favoriteRepo.Put(ctx, record); err != nil {
			log.Error("failed to persist favorite: %v", err)
			return q.Favorite, errors.NewPersistenceError(err)
		}
	}

	state, _ := s.engine.ToggleFavorite(key)
	log.Info("favorite toggled: key=%s, favorite=%t", key, state)
	return state, nil
}

func (s *studyService) History(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressRecord, error) {
	records, err := s.progressRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewPersistenceError(err)
	}
	return records, nil
}

func (s *studyService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	files, err := s.fileRepo.GetAll(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError(err)
	}
	return &models.Dashboard{
		Files:     len(files),
		Stats:     s.engine.Stats(),
		Favorites: s.engine.FavoriteCount(),
		Terms:     s.engine.TermCount(),
	}, nil
}

func (s *studyService) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	setting, err := s.settingsRepo.Get(ctx, key)
	if err != nil {
		return nil, errors.NewPersistenceError(err)
	}
	if setting == nil {
		return nil, errors.NewNotFoundError("setting", key)
	}
	return setting, nil
}

func (s *studyService) PutSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.NewValidationError("key", "must not be empty")
	}
	if err := s.settingsRepo.Put(ctx, models.Setting{Key: key, Value: value}); err != nil {
		return errors.NewPersistenceError(err)
	}
	return nil
}

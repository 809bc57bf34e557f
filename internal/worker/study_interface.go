package worker

import (
	"context"

	"github.com/medoo24/quizbank/internal/hierarchy"
)

// StudyReloader defines the reload entry point for background jobs
// This avoids import cycles by not importing the services package
type StudyReloader interface {
	ReloadAll(ctx context.Context) (hierarchy.IngestResult, error)
}

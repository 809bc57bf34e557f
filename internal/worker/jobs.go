package worker

import (
	"context"

	"github.com/medoo24/quizbank/internal/logger"
)

// ReloadJob rebuilds the question tree from every cached file. Multiple
// queued reloads are safe: a rebuild that finishes after a later one began
// is discarded by the engine's ticket watermark.
type ReloadJob struct {
	Study   StudyReloader
	Trigger string
}

func (j *ReloadJob) Name() string { return "reload_questions" }

func (j *ReloadJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("trigger", j.Trigger)
	log.Info("starting question reload")

	result, err := j.Study.ReloadAll(ctx)
	if err != nil {
		log.Error("reload failed: %v", err)
		return err
	}
	if result.Superseded {
		log.Info("reload superseded by a newer one, result discarded")
		return nil
	}

	for _, skipped := range result.Skipped {
		log.Warn("skipped file during reload: filename=%s, reason=%s", skipped.Filename, skipped.Reason)
	}
	log.Info("reload finished: files=%d, questions=%d, skipped=%d",
		result.Files, result.Loaded, len(result.Skipped))
	return nil
}

package jobs

import (
	"github.com/medoo24/quizbank/internal/worker"
)

// WorkerQueue implements JobQueue using the worker pool
type WorkerQueue struct {
	pool  *worker.Pool
	study worker.StudyReloader
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, study worker.StudyReloader) JobQueue {
	return &WorkerQueue{
		pool:  pool,
		study: study,
	}
}

func (q *WorkerQueue) EnqueueReload(trigger string) {
	q.pool.Submit(&worker.ReloadJob{
		Study:   q.study,
		Trigger: trigger,
	})
}

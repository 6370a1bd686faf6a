package tasks

import (
	"encoding/json"

	"staybot/models"

	"github.com/hibiken/asynq"
)

const TypeArchiveTurn = "history:archive"

// NewTurnArchiveTask builds the background task that persists one completed
// chat turn off the request path.
func NewTurnArchiveTask(entry models.HistoryEntry) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeArchiveTurn, b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}

// Archiver enqueues transcript turns for the background worker.
type Archiver struct {
	client *asynq.Client
}

func NewArchiver(client *asynq.Client) *Archiver {
	return &Archiver{client: client}
}

func (a *Archiver) Archive(entry models.HistoryEntry) error {
	task, opts, err := NewTurnArchiveTask(entry)
	if err != nil {
		return err
	}
	_, err = a.client.Enqueue(task, opts...)
	return err
}

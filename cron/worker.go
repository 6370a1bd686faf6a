package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"staybot/config"
	historyRepo "staybot/database/repository/history"
	"staybot/models"
	"staybot/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitArchiveWorker runs the async worker persisting chat turns in background.
func InitArchiveWorker(repo historyRepo.ChatHistoryRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeArchiveTurn, handleArchiveTask(repo))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ArchiveWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ArchiveWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ArchiveWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleArchiveTask(repo historyRepo.ChatHistoryRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var entry models.HistoryEntry
		if err := json.Unmarshal(task.Payload(), &entry); err != nil {
			log.Printf("[ArchiveHandler] Invalid payload: %v", err)
			return err
		}

		id, err := repo.SaveTurn(ctx, entry)
		if err != nil {
			log.Printf("[ArchiveHandler] Failed to persist chat turn: %v", err)
			return err
		}
		log.Printf("[ArchiveHandler] Persisted chat turn %s for conversation %s", id, entry.ConversationID)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ArchiveWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}

package main

import (
	"context"
	"database/sql"
	"time"

	"submission_service/internal/domain"
	"submission_service/internal/pool"
	"submission_service/internal/repository"
	"submission_service/pkg/kafka"
	"submission_service/pkg/logger"
)

// ReminderWorker periodically finds tasks that are due soon and still have no
// submission, and publishes one reminder event per task.
type ReminderWorker struct {
	pool          *pool.Pool
	taskRepo      *repository.TaskRepository
	kafkaProducer *kafka.Producer
	logger        *logger.Logger
	topic         string
	interval      time.Duration
	window        time.Duration
}

func NewReminderWorker(
	db *pool.Pool,
	taskRepo *repository.TaskRepository,
	kafkaProducer *kafka.Producer,
	log *logger.Logger,
	topic string,
	interval, window time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		pool:          db,
		taskRepo:      taskRepo,
		kafkaProducer: kafkaProducer,
		logger:        log,
		topic:         topic,
		interval:      interval,
		window:        window,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.processReminders(ctx)
		}
	}
}

func (w *ReminderWorker) processReminders(ctx context.Context) {
	var due []*domain.Task
	err := w.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		due, err = w.taskRepo.FindDueSoon(ctx, conn, w.window)
		return err
	})
	if err != nil {
		w.logger.Errorf("Failed to get tasks due soon: %v", err)
		return
	}

	for _, task := range due {
		message := map[string]interface{}{
			"task_id":    task.ID,
			"student_id": task.StudentID,
			"class_id":   task.ClassID,
			"due_date":   task.DueDate,
			"name":       task.Name,
		}

		if err := w.kafkaProducer.Send(ctx, w.topic, message); err != nil {
			w.logger.Errorf("Failed to send reminder for task %d: %v", task.ID, err)
			continue
		}

		w.logger.Infof("Sent reminder for task %d", task.ID)
	}
}

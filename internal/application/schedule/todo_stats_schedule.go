package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
)

const statsTimeout = 30 * time.Second

// TodoStatsScheduler periodically logs how many todos are stored
type TodoStatsScheduler struct {
	cron           *cron.Cron
	useCase        todo.UseCase
	cronExpression string
}

func NewTodoStatsScheduler(useCase todo.UseCase, cronExpression string) *TodoStatsScheduler {
	return &TodoStatsScheduler{
		cron:           cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		useCase:        useCase,
		cronExpression: cronExpression,
	}
}

// InitTodoStatsScheduleTasks registers the job and starts the cron
func (scheduler *TodoStatsScheduler) InitTodoStatsScheduleTasks() error {
	if _, err := scheduler.cron.AddFunc(scheduler.cronExpression, scheduler.ReportTodoCount); err != nil {
		return err
	}

	scheduler.cron.Start()
	log.Info(msg.GetMessage("todo.stats.start"), zap.String("cron", scheduler.cronExpression))
	return nil
}

// ReportTodoCount logs the current count. A missing table counts as zero todos.
func (scheduler *TodoStatsScheduler) ReportTodoCount() {
	requestID := uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	count, err := scheduler.useCase.Count(ctx)
	if err != nil && !db.IsUndefinedTable(err) {
		log.Error(msg.GetMessage("todo.stats.failed", err), zap.String("request_id", requestID), zap.Error(err))
		return
	}

	log.Info(msg.GetMessage("todo.stats.count", count),
		zap.String("request_id", requestID),
		zap.Int64("todo_count", count))
}

// Stop waits for a running job to finish
func (scheduler *TodoStatsScheduler) Stop() {
	ctx := scheduler.cron.Stop()
	<-ctx.Done()
}

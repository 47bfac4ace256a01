package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mkrajewski/task-manager-api/internal/mail"
	"github.com/mkrajewski/task-manager-api/internal/repository"
	"go.uber.org/zap"
)

// Runner periodically scans for tasks approaching their deadline and emails
// each owner. It consumes only the task repository's read interface and
// runs on its own timer, decoupled from request handling.
type Runner struct {
	interval time.Duration
	window   time.Duration
	tasks    repository.TaskRepository
	mailer   mail.Mailer
	logger   *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a reminder Runner. interval is how often to scan, window
// how far ahead of the deadline to notify.
func NewRunner(interval, window time.Duration, tasks repository.TaskRepository, mailer mail.Mailer, logger *zap.Logger) *Runner {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Runner{
		interval: interval,
		window:   window,
		tasks:    tasks,
		mailer:   mailer,
		logger:   logger,
	}
}

// Start launches the scan loop. It returns immediately; call Stop to shut
// the loop down and wait for an in-flight scan to finish.
func (r *Runner) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case now := <-ticker.C:
				r.Scan(now)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Scan notifies owners of every task due within the window. A failed send
// is logged and the scan moves on to the next task; one bad address must
// not abort the rest.
func (r *Runner) Scan(now time.Time) {
	tasks, err := r.tasks.ListDueBetween(now, now.Add(r.window))
	if err != nil {
		r.logger.Error("reminder scan failed", zap.Error(err))
		return
	}

	for _, task := range tasks {
		if task.Owner.Email == "" {
			continue
		}

		body := fmt.Sprintf("You have a task %q to complete by %s.",
			task.Title, task.Deadline.Format(time.RFC1123))

		if err := r.mailer.Send(task.Owner.Email, "Task deadline reminder", body); err != nil {
			r.logger.Warn("reminder send failed",
				zap.Uint64("task_id", task.ID),
				zap.Error(err))
			continue
		}

		r.logger.Info("reminder sent", zap.Uint64("task_id", task.ID))
	}
}

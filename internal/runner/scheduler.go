package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"signal_bot/pkg/metrics"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Task func(ctx context.Context)

type entry struct {
	name    string
	period  time.Duration
	lastRun time.Time
	task    Task
}

// Scheduler: периодические задачи в одной горутине. Задачи одного тика
// выполняются последовательно в порядке регистрации.
type Scheduler struct {
	clock   Clock
	entries []*entry
	log     *zap.Logger
}

func NewScheduler(clock Clock, log *zap.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{clock: clock, log: log.Named("scheduler")}
}

// Every регистрирует задачу. Первый Tick запускает её сразу.
func (s *Scheduler) Every(name string, period time.Duration, task Task) {
	s.entries = append(s.entries, &entry{name: name, period: period, task: task})
}

// Tick запускает все задачи, у которых наступил срок.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.clock.Now()
	for _, e := range s.entries {
		if ctx.Err() != nil {
			return
		}
		if !e.lastRun.IsZero() && now.Sub(e.lastRun) < e.period {
			continue
		}
		e.lastRun = now
		s.run(ctx, e)
	}
}

func (s *Scheduler) run(ctx context.Context, e *entry) {
	start := time.Now()
	defer func() {
		metrics.TaskDuration.WithLabelValues(e.name).Observe(time.Since(start).Seconds())
		if p := recover(); p != nil {
			s.log.Error("task panicked",
				zap.String("task", e.name),
				zap.String("panic", fmt.Sprint(p)),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()
	e.task(ctx)
}

// Run: Tick сразу, затем каждые tick до отмены ctx.
func (s *Scheduler) Run(ctx context.Context, tick time.Duration) error {
	s.log.Info("scheduler started", zap.Int("tasks", len(s.entries)), zap.Duration("tick", tick))
	s.Tick(ctx)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

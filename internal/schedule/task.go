package schedule

import (
	"context"
	"fmt"
	"log/slog"
)

// Task is a unit of scheduled work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// Daily drives a task once per day at a fixed wall-clock time. A failed
// run is logged and the schedule keeps going.
type Daily struct {
	task   Task
	hour   int
	minute int
	second int
	logger *slog.Logger
}

func NewDaily(task Task, hour, minute, second int) (*Daily, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("schedule: hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return nil, fmt.Errorf("schedule: minute out of range: %d", minute)
	}
	if second < 0 || second > 59 {
		return nil, fmt.Errorf("schedule: second out of range: %d", second)
	}
	return &Daily{
		task:   task,
		hour:   hour,
		minute: minute,
		second: second,
		logger: slog.With(slog.String("task", task.Name())),
	}, nil
}

// Start blocks, firing the task at each occurrence, until the context is
// canceled.
func (d *Daily) Start(ctx context.Context) error {
	for {
		if err := WaitUntil(ctx, d.hour, d.minute, d.second); err != nil {
			return err
		}
		if err := d.task.Run(ctx); err != nil {
			d.logger.Error("scheduled task failed", slog.Any("err", err))
			continue
		}
		d.logger.Info("scheduled task completed")
	}
}

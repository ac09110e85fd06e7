package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/resto-labs/backend-resto/internal/events"
	"github.com/resto-labs/backend-resto/internal/obs"
	"github.com/resto-labs/backend-resto/internal/store"
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier converts emitted domain events into queued tasks. It implements
// events.Notifier.
type Notifier struct {
	Client TaskEnqueuer
}

var _ events.Notifier = (*Notifier)(nil)

// Notify enqueues the matching task for the event topic. Unknown topics are
// ignored so new events never break emission.
func (n *Notifier) Notify(ctx context.Context, event store.DomainEvent) error {
	if n == nil || n.Client == nil {
		return nil
	}
	taskType, ok := taskTypeFor(event.Topic)
	if !ok {
		return nil
	}
	var payload json.RawMessage = event.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	task := asynq.NewTask(taskType, payload)
	if _, err := n.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		counterInc(obs.NotifyTasksTotal, taskType, "error")
		return fmt.Errorf("notify: enqueue %s: %w", taskType, err)
	}
	counterInc(obs.NotifyTasksTotal, taskType, "ok")
	return nil
}

func taskTypeFor(topic string) (string, bool) {
	switch topic {
	case events.TopicOrderPlaced:
		return TaskOrderPlaced, true
	case events.TopicOrderStatusChanged:
		return TaskOrderStatusChanged, true
	case events.TopicOrderPaymentUpdated:
		return TaskPaymentUpdated, true
	default:
		return "", false
	}
}

func counterInc(vec *prometheus.CounterVec, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Inc()
}

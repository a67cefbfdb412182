// Package tasks defines the background jobs that remove media assets no course uses
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// TypeMediaCleanup deletes media assets
	TypeMediaCleanup = "media:cleanup"
	// QueueMedia is the queue media jobs run on
	QueueMedia = "media"
)

// MediaCleanupPayload is the payload of a media:cleanup task
type MediaCleanupPayload struct {
	AssetIDs []string `json:"assetIds"`
	Reason   string   `json:"reason"`
}

// NewMediaCleanupTask builds a media:cleanup task
func NewMediaCleanupTask(assetIDs []string, reason string) (*asynq.Task, error) {
	payload, err := json.Marshal(MediaCleanupPayload{AssetIDs: assetIDs, Reason: reason})
	if err != nil {
		return nil, fmt.Errorf("failed to encode media cleanup payload: %w", err)
	}
	return asynq.NewTask(TypeMediaCleanup, payload), nil
}

// Enqueuer is satisfied by *asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher enqueues media jobs
type Dispatcher struct {
	client Enqueuer
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher over an asynq client
func NewDispatcher(client Enqueuer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

// EnqueueMediaCleanup schedules deletion of the given assets. Empty ids are skipped.
func (d *Dispatcher) EnqueueMediaCleanup(ctx context.Context, assetIDs []string, reason string) error {
	ids := make([]string, 0, len(assetIDs))
	for _, id := range assetIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	task, err := NewMediaCleanupTask(ids, reason)
	if err != nil {
		return err
	}

	info, err := d.client.EnqueueContext(ctx, task, asynq.Queue(QueueMedia), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("failed to enqueue media cleanup: %w", err)
	}

	d.logger.Info("media cleanup enqueued",
		zap.String("task_id", info.ID),
		zap.Int("assets", len(ids)),
		zap.String("reason", reason),
	)
	return nil
}

// AssetRemover deletes a stored asset and its metadata
type AssetRemover interface {
	// Delete removes the asset with the given id.
	//
	// Returns an error containing "not found" when the asset does not exist.
	Delete(ctx context.Context, id string) error
}

// CleanupHandler processes media:cleanup tasks
type CleanupHandler struct {
	remover AssetRemover
	logger  *zap.Logger
}

// NewCleanupHandler creates a media:cleanup handler
func NewCleanupHandler(remover AssetRemover, logger *zap.Logger) *CleanupHandler {
	return &CleanupHandler{remover: remover, logger: logger}
}

// ProcessTask deletes every asset in the payload. Missing assets count as deleted.
// Any other failure fails the task so asynq retries it.
func (h *CleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload MediaCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode media cleanup payload: %v: %w", err, asynq.SkipRetry)
	}

	var failed []string
	for _, id := range payload.AssetIDs {
		err := h.remover.Delete(ctx, id)
		switch {
		case err == nil:
			h.logger.Info("media asset removed", zap.String("asset", id), zap.String("reason", payload.Reason))
		case strings.Contains(err.Error(), "not found"):
			h.logger.Debug("media asset already removed", zap.String("asset", id))
		default:
			h.logger.Error("failed to remove media asset", zap.String("asset", id), zap.Error(err))
			failed = append(failed, id)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to remove %d of %d media assets: %s", len(failed), len(payload.AssetIDs), strings.Join(failed, ", "))
	}
	return nil
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/pod-sync/pkg/v1/commander"
	"github.com/rs/zerolog"
)

// RMQHandler handles RMQ messages.
type RMQHandler struct {
	rmq      *rabbitmq.RabbitMQ
	queue    Enqueuer
	webhooks *Webhooks
	logger   *zerolog.Logger
}

// NewHandler returns new RMQHandler.
func NewHandler(rmq *rabbitmq.RabbitMQ, queue Enqueuer, webhooks *Webhooks, logger *zerolog.Logger) *RMQHandler {
	return &RMQHandler{
		rmq:      rmq,
		queue:    queue,
		webhooks: webhooks,
		logger:   logger,
	}
}

// Start starts consuming and handling sync and webhook commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.rmq.Consume(ctx, queue, h.HandleMessage)
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

// HandleMessage decodes single command and enqueues its task.
func (h *RMQHandler) HandleMessage(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage(message)
	if err != nil {
		return err
	}

	switch {
	case cmd.Kind == commander.KindSync && cmd.Sync != nil:
		task, err := h.queue.Enqueue(ctx, syncTask(cmd.Sync))
		if err != nil {
			return fmt.Errorf("can't enqueue sync command: %w", err)
		}

		h.logger.Debug().
			Str("taskId", task.ID).
			Str("target", task.Target().String()).
			Msg("sync command accepted")
	case cmd.Kind == commander.KindWebhook && cmd.Webhook != nil:
		_, err := h.webhooks.Handle(
			ctx,
			cmd.Webhook.StoreID,
			models.ProviderType(cmd.Webhook.Provider),
			cmd.Webhook.Signature,
			cmd.Webhook.Body,
		)
		if err != nil {
			return fmt.Errorf("can't handle webhook command: %w", err)
		}
	default:
		return &platform.ValidationError{Fields: []string{"kind"}, Message: fmt.Sprintf("unsupported command %q", cmd.Kind)}
	}

	return nil
}

func syncTask(cmd *commander.SyncCommand) models.SyncTask {
	return models.SyncTask{
		Type:     models.TaskType(cmd.Type),
		Entity:   models.Entity(cmd.Entity),
		EntityID: cmd.EntityID,
		Provider: models.ProviderType(cmd.Provider),
		Stores:   cmd.Stores,
		Payload:  cmd.Payload,
	}
}

func decodeMessage(msg []byte) (*commander.Command, error) {
	var cmd commander.Command
	err := json.Unmarshal(msg, &cmd)
	if err != nil {
		return nil, &platform.ValidationError{Fields: []string{"message"}, Message: fmt.Sprintf("can't decode command: %s", err)}
	}

	return &cmd, nil
}

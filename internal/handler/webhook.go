package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Credentials --filename credentials.go
//go:generate mockery --name Enqueuer --filename enqueuer.go

// ErrInvalidSignature is returned when webhook signature doesn't match its body.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Credentials returns stores' integrations.
type Credentials interface {
	GetCredentials(ctx context.Context, storeID string, provider models.ProviderType) (*models.Credentials, error)
}

// Enqueuer enqueues sync tasks.
type Enqueuer interface {
	Enqueue(ctx context.Context, task models.SyncTask) (*models.SyncTask, error)
}

// Webhooks turns verified provider webhooks into sync tasks.
type Webhooks struct {
	credentials Credentials
	queue       Enqueuer
	log         *zerolog.Logger
}

// NewWebhooks returns new Webhooks.
func NewWebhooks(credentials Credentials, queue Enqueuer, log *zerolog.Logger) *Webhooks {
	return &Webhooks{
		credentials: credentials,
		queue:       queue,
		log:         log,
	}
}

// Handle verifies webhook body signature with integration's webhook secret and enqueues matching task.
// Inventory notification syncs store inventory, order status and shipping notifications update the order.
func (w *Webhooks) Handle(
	ctx context.Context,
	storeID string,
	provider models.ProviderType,
	signature string,
	body []byte,
) (*models.SyncTask, error) {
	if !provider.Valid() {
		return nil, &platform.ValidationError{Fields: []string{"provider"}, Message: fmt.Sprintf("unsupported provider %q", provider)}
	}

	creds, err := w.credentials.GetCredentials(ctx, storeID, provider)
	if err != nil {
		return nil, fmt.Errorf("can't get credentials: %w", err)
	}
	if creds.RevokedAt != nil {
		return nil, fmt.Errorf("%s integration of store %s is revoked: %w", provider, storeID, platform.ErrNotFound)
	}

	if creds.WebhookSecret == nil || !validSignature(body, signature, *creds.WebhookSecret) {
		return nil, ErrInvalidSignature
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &platform.ValidationError{Provider: string(provider), Fields: []string{"body"}, Message: err.Error()}
	}

	task, err := webhookTask(storeID, provider, payload, body)
	if err != nil {
		return nil, err
	}

	enqueued, err := w.queue.Enqueue(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("can't enqueue %s webhook: %w", payload.Type, err)
	}

	w.log.Info().
		Str("storeId", storeID).
		Str("provider", string(provider)).
		Str("webhook", string(payload.Type)).
		Str("taskId", enqueued.ID).
		Msg("webhook accepted")

	return enqueued, nil
}

func webhookTask(storeID string, provider models.ProviderType, payload models.WebhookPayload, body []byte) (models.SyncTask, error) {
	task := models.SyncTask{
		Type:     models.TaskUpdate,
		Provider: provider,
		Stores:   []string{storeID},
	}

	switch payload.Type {
	case models.WebhookInventory:
		task.Entity = models.EntityInventory
		task.EntityID = storeID
	case models.WebhookOrderStatus, models.WebhookShipping:
		if payload.ProviderID == "" {
			return task, &platform.ValidationError{Provider: string(provider), Fields: []string{"providerId"}, Message: "order webhook requires providerId"}
		}
		task.Entity = models.EntityOrder
		task.EntityID = payload.ProviderID
		task.Payload = body
	default:
		return task, &platform.ValidationError{Provider: string(provider), Fields: []string{"type"}, Message: fmt.Sprintf("unsupported webhook type %q", payload.Type)}
	}

	return task, nil
}

// Sign returns hex encoded HMAC-SHA256 of body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(body []byte, signature, secret string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hmac.Equal(expected, mac.Sum(nil))
}

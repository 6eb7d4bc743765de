package commander

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// SyncCommander sends pod-sync commands.
type SyncCommander struct {
	sender Sender
}

// NewSyncCommander returns new SyncCommander using provided sender for sending messages.
func NewSyncCommander(sender Sender) SyncCommander {
	return SyncCommander{
		sender: sender,
	}
}

// SendSyncCommand sends command requesting sync task.
func (c SyncCommander) SendSyncCommand(ctx context.Context, cmd SyncCommand) error {
	if len(cmd.Stores) == 0 {
		return errors.New("sync command requires at least one store")
	}

	return c.send(ctx, Command{Kind: KindSync, Sync: &cmd})
}

// SendCatalogSync sends command requesting full catalog sync of store with provider.
func (c SyncCommander) SendCatalogSync(ctx context.Context, storeID, provider string) error {
	return c.SendSyncCommand(ctx, SyncCommand{
		Type:     "update",
		Entity:   "product",
		EntityID: "catalog:" + provider + ":" + storeID,
		Provider: provider,
		Stores:   []string{storeID},
	})
}

// SendWebhookCommand forwards provider webhook.
func (c SyncCommander) SendWebhookCommand(ctx context.Context, cmd WebhookCommand) error {
	return c.send(ctx, Command{Kind: KindWebhook, Webhook: &cmd})
}

func (c SyncCommander) send(ctx context.Context, cmd Command) error {
	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal %s command: %w", cmd.Kind, err)
	}

	return c.sender.Send(ctx, cmdMsg)
}

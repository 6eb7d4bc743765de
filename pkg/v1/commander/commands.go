package commander

import "encoding/json"

// Command kinds.
const (
	KindSync    = "sync"
	KindWebhook = "webhook"
)

// Command is message consumed by pod-sync. Exactly one of Sync and Webhook is set, matching Kind.
type Command struct {
	Kind    string          `json:"kind"`
	Sync    *SyncCommand    `json:"sync,omitempty"`
	Webhook *WebhookCommand `json:"webhook,omitempty"`
}

// SyncCommand requests sync task.
type SyncCommand struct {
	// Type is create, update or delete.
	Type string `json:"type"`
	// Entity is product, collection, template, inventory or order.
	Entity   string          `json:"entity"`
	EntityID string          `json:"entityId"`
	Provider string          `json:"provider"`
	Stores   []string        `json:"stores"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// WebhookCommand forwards provider webhook received by other service.
type WebhookCommand struct {
	StoreID  string `json:"storeId"`
	Provider string `json:"provider"`
	// Signature is hex encoded HMAC-SHA256 of Body made with integration's webhook secret.
	Signature string `json:"signature"`
	// Body is webhook request body exactly as received. It is base64 encoded in JSON
	// so whitespace and escaping covered by Signature are kept.
	Body []byte `json:"body"`
}

// Routing keys of events published by pod-sync.
const (
	OrderCreatedRoutingKey = "pod-sync.events.order-created"
	OrderStatusRoutingKey  = "pod-sync.events.order-status"
)

// OrderEvent reports order submitted to provider or its status change.
type OrderEvent struct {
	StoreID    string          `json:"storeId"`
	Provider   string          `json:"provider"`
	ExternalID string          `json:"externalId"`
	OrderID    string          `json:"orderId,omitempty"`
	Status     string          `json:"status,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Package dispatcher routes sync tasks to provider adapters.
package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/MichalMitros/pod-sync/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Adapters --filename adapters.go
//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name Publisher --filename publisher.go

// ErrUnsupportedTask is returned for task without matching operation.
var ErrUnsupportedTask = errors.New("unsupported task")

// Adapters opens initialized provider adapters.
type Adapters interface {
	Open(ctx context.Context, storeID string, provider models.ProviderType) (provider.PrintProvider, error)
	// EvictOnAuthError drops cached adapter if err means its credentials were rejected.
	EvictOnAuthError(storeID string, provider models.ProviderType, err error)
}

// Storage stores results of single item operations.
type Storage interface {
	// UpsertProduct inserts product or updates product with the same key.
	UpsertProduct(ctx context.Context, product *models.Product) error
	// RemoveProduct soft deletes product. Missing product is not an error.
	RemoveProduct(ctx context.Context, storeID string, provider models.ProviderType, externalID string) error
	// UpdateInventory sets availability of stored variants.
	UpdateInventory(ctx context.Context, storeID string, provider models.ProviderType, levels []models.InventoryLevel) error
}

// Publisher publishes events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message []byte) error
}

type operation func(ctx context.Context, adapter provider.PrintProvider, storeID string, task models.SyncTask) error

// handler is task operation. Submitting operations create provider side objects
// and must not run again for a store where they already succeeded.
type handler struct {
	op         operation
	submitting bool
}

type route struct {
	taskType models.TaskType
	entity   models.Entity
}

// Dispatcher performs tasks' operations for every task store.
type Dispatcher struct {
	adapters  Adapters
	storage   Storage
	publisher Publisher
	log       *zerolog.Logger
	routes    map[route]handler
}

// NewDispatcher returns new Dispatcher.
func NewDispatcher(adapters Adapters, storage Storage, publisher Publisher, log *zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		adapters:  adapters,
		storage:   storage,
		publisher: publisher,
		log:       log,
	}

	d.routes = map[route]handler{
		{models.TaskUpdate, models.EntityProduct}:   {op: d.syncProducts},
		{models.TaskUpdate, models.EntityTemplate}:  {op: d.syncProducts},
		{models.TaskCreate, models.EntityProduct}:   {op: d.createProduct, submitting: true},
		{models.TaskDelete, models.EntityProduct}:   {op: d.removeProduct},
		{models.TaskUpdate, models.EntityInventory}: {op: d.syncInventory},
		{models.TaskCreate, models.EntityOrder}:     {op: d.createOrder, submitting: true},
		{models.TaskUpdate, models.EntityOrder}:     {op: d.publishOrderStatus},
	}

	return d
}

// Dispatch runs task's operation for each of its stores.
// Failure of one store doesn't stop the others, all failures are joined.
// Failed submitting task is not retryable once any of its stores succeeded,
// as retry would submit the same product or order again.
func (d *Dispatcher) Dispatch(ctx context.Context, task models.SyncTask) error {
	h, ok := d.routes[route{taskType: task.Type, entity: task.Entity}]
	if !ok {
		return platform.Permanent(fmt.Errorf("%s %s: %w", task.Type, task.Entity, ErrUnsupportedTask))
	}

	var (
		errs []error
		done int
	)
	for _, storeID := range task.Stores {
		adapter, err := d.adapters.Open(ctx, storeID, task.Provider)
		if err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", storeID, err))
			continue
		}

		if err := h.op(ctx, adapter, storeID, task); err != nil {
			d.adapters.EvictOnAuthError(storeID, task.Provider, err)
			errs = append(errs, fmt.Errorf("store %s: %w", storeID, err))
			continue
		}

		done++
		d.log.Debug().Str("taskId", task.ID).Str("storeId", storeID).Msg("task operation done")
	}

	err := errors.Join(errs...)
	if h.submitting && done > 0 {
		return platform.Permanent(err)
	}

	return err
}

func (d *Dispatcher) syncProducts(ctx context.Context, adapter provider.PrintProvider, _ string, _ models.SyncTask) error {
	if _, err := adapter.SyncProducts(ctx); err != nil {
		return fmt.Errorf("can't sync products: %w", err)
	}
	return nil
}

func (d *Dispatcher) createProduct(ctx context.Context, adapter provider.PrintProvider, storeID string, task models.SyncTask) error {
	var data models.ProductData
	if err := decodePayload(task, &data); err != nil {
		return err
	}

	product, err := adapter.CreateProduct(ctx, data)
	if err != nil {
		return platform.Permanent(fmt.Errorf("can't create product: %w", err))
	}

	product.StoreID = storeID
	if err := d.storage.UpsertProduct(ctx, product); err != nil {
		return platform.Permanent(fmt.Errorf("can't store created product %s: %w", product.ExternalID, err))
	}

	return nil
}

func (d *Dispatcher) removeProduct(ctx context.Context, adapter provider.PrintProvider, storeID string, task models.SyncTask) error {
	if err := d.storage.RemoveProduct(ctx, storeID, adapter.Type(), task.EntityID); err != nil {
		return fmt.Errorf("can't remove product %s: %w", task.EntityID, err)
	}
	return nil
}

func (d *Dispatcher) syncInventory(ctx context.Context, adapter provider.PrintProvider, storeID string, _ models.SyncTask) error {
	levels, err := adapter.SyncInventory(ctx)
	if err != nil {
		return fmt.Errorf("can't sync inventory: %w", err)
	}

	if err := d.storage.UpdateInventory(ctx, storeID, adapter.Type(), levels); err != nil {
		return fmt.Errorf("can't update inventory: %w", err)
	}

	return nil
}

func (d *Dispatcher) createOrder(ctx context.Context, adapter provider.PrintProvider, storeID string, task models.SyncTask) error {
	var data models.OrderData
	if err := decodePayload(task, &data); err != nil {
		return err
	}

	confirmation, err := adapter.CreateOrder(ctx, data)
	if err != nil {
		return platform.Permanent(fmt.Errorf("can't create order %s: %w", data.ExternalID, err))
	}

	err = d.publish(ctx, commander.OrderCreatedRoutingKey, commander.OrderEvent{
		StoreID:    storeID,
		Provider:   string(confirmation.Provider),
		ExternalID: confirmation.ExternalID,
		OrderID:    confirmation.OrderID,
		Status:     confirmation.Status,
	})

	return platform.Permanent(err)
}

func (d *Dispatcher) publishOrderStatus(ctx context.Context, adapter provider.PrintProvider, storeID string, task models.SyncTask) error {
	var payload models.WebhookPayload
	if err := decodePayload(task, &payload); err != nil {
		return err
	}

	return d.publish(ctx, commander.OrderStatusRoutingKey, commander.OrderEvent{
		StoreID:    storeID,
		Provider:   string(adapter.Type()),
		ExternalID: task.EntityID,
		Status:     string(payload.Type),
		Data:       payload.Data,
	})
}

func (d *Dispatcher) publish(ctx context.Context, routingKey string, event commander.OrderEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("can't marshal order event: %w", err)
	}

	if err := d.publisher.Publish(ctx, routingKey, msg); err != nil {
		return fmt.Errorf("can't publish order event: %w", err)
	}

	return nil
}

// decodePayload decodes and validates task payload. Invalid payload is never retried.
func decodePayload(task models.SyncTask, out any) error {
	if len(task.Payload) == 0 {
		return platform.Permanent(&platform.ValidationError{Fields: []string{"payload"}, Message: "task requires payload"})
	}

	if err := json.Unmarshal(task.Payload, out); err != nil {
		return platform.Permanent(&platform.ValidationError{Fields: []string{"payload"}, Message: err.Error()})
	}

	if err := models.Validate(out); err != nil {
		return platform.Permanent(err)
	}

	return nil
}

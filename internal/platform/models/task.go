package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when task can't move into requested status.
var ErrInvalidTransition = errors.New("invalid task status transition")

// TaskType is kind of operation performed by task.
type TaskType string

const (
	TaskCreate TaskType = "create"
	TaskUpdate TaskType = "update"
	TaskDelete TaskType = "delete"
)

// TaskStatus is task lifecycle state.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Entity is kind of record task operates on.
type Entity string

const (
	EntityProduct    Entity = "product"
	EntityCollection Entity = "collection"
	EntityTemplate   Entity = "template"
	EntityInventory  Entity = "inventory"
	EntityOrder      Entity = "order"
)

// Target identifies record task operates on. At most one task per target may be processed at a time.
type Target struct {
	Entity   Entity
	EntityID string
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s", t.Entity, t.EntityID)
}

// SyncTask is a unit of scheduled sync work.
type SyncTask struct {
	ID        string          `json:"id"`
	Type      TaskType        `json:"type" validate:"required,oneof=create update delete"`
	Status    TaskStatus      `json:"status"`
	Entity    Entity          `json:"entity" validate:"required,oneof=product collection template inventory order"`
	EntityID  string          `json:"entityId" validate:"required"`
	Provider  ProviderType    `json:"provider" validate:"required,oneof=printify printful gooten gelato"`
	Stores    []string        `json:"stores" validate:"required,min=1,dive,required"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Attempts  int             `json:"attempts"`
	Error     *string         `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Target returns task's target.
func (t *SyncTask) Target() Target {
	return Target{Entity: t.Entity, EntityID: t.EntityID}
}

// Transition moves task into status to.
// Error is kept only in failed status, every other transition clears it.
func (t *SyncTask) Transition(to TaskStatus, now time.Time, cause error) error {
	if !canTransition(t.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}

	t.Status = to
	t.UpdatedAt = now
	t.Error = nil

	if to == TaskFailed {
		msg := "unknown error"
		if cause != nil {
			msg = cause.Error()
		}
		t.Error = &msg
	}

	return nil
}

// IsTerminal reports whether task won't be processed again without explicit retry.
func (t *SyncTask) IsTerminal() bool {
	switch t.Status {
	case TaskCompleted, TaskFailed, TaskCancelled:
		return true
	default:
		return false
	}
}

func canTransition(from, to TaskStatus) bool {
	switch from {
	case TaskPending:
		return to == TaskProcessing || to == TaskCancelled
	case TaskProcessing:
		return to == TaskCompleted || to == TaskFailed
	case TaskFailed:
		return to == TaskPending
	default:
		return false
	}
}

// TaskFilter narrows listed tasks. Zero fields match everything.
type TaskFilter struct {
	Status   TaskStatus
	Entity   Entity
	Provider ProviderType
	StoreID  string
	Limit    int
}

// CatalogTask returns task syncing whole catalog of store with provider.
// Catalogs of the same store with different providers are separate targets.
func CatalogTask(storeID string, provider ProviderType) SyncTask {
	return SyncTask{
		Type:     TaskUpdate,
		Entity:   EntityProduct,
		EntityID: CatalogEntityID(storeID, provider),
		Provider: provider,
		Stores:   []string{storeID},
	}
}

// CatalogEntityID returns entity id of store's catalog with provider.
func CatalogEntityID(storeID string, provider ProviderType) string {
	return "catalog:" + string(provider) + ":" + storeID
}

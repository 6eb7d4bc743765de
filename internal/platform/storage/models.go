package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/pod-sync/internal/platform/storage/gen/postgres/public/model"
)

//go:generate make -C ../../../ generate-db

// checkpointItem is stored form of fetched product. Mapping error keeps only its message.
type checkpointItem struct {
	ExternalID string          `json:"externalId"`
	Product    *models.Product `json:"product,omitempty"`
	Error      *string         `json:"error,omitempty"`
}

func toDBRun(run *models.Run) (*pgmodels.Run, error) {
	dbRun := &pgmodels.Run{
		ID:              int32(run.ID),
		StoreID:         run.StoreID,
		Provider:        string(run.Provider),
		CreatedAt:       run.CreatedAt,
		FinishedAt:      run.FinishedAt,
		Success:         run.IsSuccess,
		StatusMessage:   run.StatusMessage,
		AddedProducts:   run.AddedProducts,
		UpdatedProducts: run.UpdatedProducts,
		RemovedProducts: run.RemovedProducts,
		FailedProducts:  run.FailedProducts,
	}

	if len(run.Errors) > 0 {
		syncErrors, err := marshal(run.Errors)
		if err != nil {
			return nil, fmt.Errorf("can't encode run errors: %w", err)
		}
		dbRun.Errors = &syncErrors
	}

	return dbRun, nil
}

func fromDBRun(dbRun *pgmodels.Run) (*models.Run, error) {
	run := &models.Run{
		ID:              int(dbRun.ID),
		StoreID:         dbRun.StoreID,
		Provider:        models.ProviderType(dbRun.Provider),
		CreatedAt:       dbRun.CreatedAt,
		FinishedAt:      dbRun.FinishedAt,
		IsSuccess:       dbRun.Success,
		StatusMessage:   dbRun.StatusMessage,
		AddedProducts:   dbRun.AddedProducts,
		UpdatedProducts: dbRun.UpdatedProducts,
		RemovedProducts: dbRun.RemovedProducts,
		FailedProducts:  dbRun.FailedProducts,
	}

	if dbRun.Errors != nil {
		if err := json.Unmarshal([]byte(*dbRun.Errors), &run.Errors); err != nil {
			return nil, fmt.Errorf("can't decode run %d errors: %w", dbRun.ID, err)
		}
	}

	return run, nil
}

// ToDBProduct converts models.Product into postgres product model.
func ToDBProduct(product *models.Product) (*pgmodels.Product, error) {
	variants, err := marshal(lo.Ternary(product.Variants == nil, []models.Variant{}, product.Variants))
	if err != nil {
		return nil, fmt.Errorf("can't encode variants of %s: %w", product.ExternalID, err)
	}

	images, err := marshal(lo.Ternary(product.Images == nil, []models.Image{}, product.Images))
	if err != nil {
		return nil, fmt.Errorf("can't encode images of %s: %w", product.ExternalID, err)
	}

	dbProduct := pgmodels.Product{
		ID:          int32(product.ID),
		StoreID:     product.StoreID,
		Provider:    string(product.Provider),
		ExternalID:  product.ExternalID,
		Title:       product.Title,
		Description: product.Description,
		Variants:    variants,
		Images:      images,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
		DeletedAt:   product.DeletedAt,
	}

	if len(product.Metadata) > 0 {
		metadata, err := marshal(product.Metadata)
		if err != nil {
			return nil, fmt.Errorf("can't encode metadata of %s: %w", product.ExternalID, err)
		}
		dbProduct.Metadata = &metadata
	}

	return &dbProduct, nil
}

// FromDBProduct converts postgres product model into models.Product.
func FromDBProduct(dbProduct *pgmodels.Product) (*models.Product, error) {
	product := models.Product{
		ID:          int(dbProduct.ID),
		StoreID:     dbProduct.StoreID,
		Provider:    models.ProviderType(dbProduct.Provider),
		ExternalID:  dbProduct.ExternalID,
		Title:       dbProduct.Title,
		Description: dbProduct.Description,
		CreatedAt:   dbProduct.CreatedAt,
		UpdatedAt:   dbProduct.UpdatedAt,
		DeletedAt:   dbProduct.DeletedAt,
	}

	if err := json.Unmarshal([]byte(dbProduct.Variants), &product.Variants); err != nil {
		return nil, fmt.Errorf("can't decode variants of %s: %w", dbProduct.ExternalID, err)
	}

	if err := json.Unmarshal([]byte(dbProduct.Images), &product.Images); err != nil {
		return nil, fmt.Errorf("can't decode images of %s: %w", dbProduct.ExternalID, err)
	}

	if dbProduct.Metadata != nil {
		if err := json.Unmarshal([]byte(*dbProduct.Metadata), &product.Metadata); err != nil {
			return nil, fmt.Errorf("can't decode metadata of %s: %w", dbProduct.ExternalID, err)
		}
	}

	return &product, nil
}

func toDBCheckpoint(checkpoint *models.Checkpoint) (*pgmodels.Checkpoint, error) {
	encoded, err := encodeCheckpointItems(checkpoint.Items)
	if err != nil {
		return nil, err
	}

	return &pgmodels.Checkpoint{
		StoreID:   checkpoint.StoreID,
		Provider:  string(checkpoint.Provider),
		Cursor:    checkpoint.Cursor,
		Complete:  checkpoint.Complete,
		Items:     encoded,
		UpdatedAt: checkpoint.UpdatedAt,
	}, nil
}

func encodeCheckpointItems(fetched []models.FetchedProduct) (string, error) {
	items := lo.Map(fetched, func(item models.FetchedProduct, _ int) checkpointItem {
		stored := checkpointItem{ExternalID: item.ExternalID, Product: item.Product}
		if item.Error != nil {
			stored.Error = lo.ToPtr(item.Error.Error())
		}
		return stored
	})

	encoded, err := marshal(items)
	if err != nil {
		return "", fmt.Errorf("can't encode checkpoint items: %w", err)
	}

	return encoded, nil
}

func fromDBCheckpoint(dbCheckpoint *pgmodels.Checkpoint) (*models.Checkpoint, error) {
	var items []checkpointItem
	if err := json.Unmarshal([]byte(dbCheckpoint.Items), &items); err != nil {
		return nil, fmt.Errorf("can't decode checkpoint items: %w", err)
	}

	return &models.Checkpoint{
		StoreID:  dbCheckpoint.StoreID,
		Provider: models.ProviderType(dbCheckpoint.Provider),
		Cursor:   dbCheckpoint.Cursor,
		Complete: dbCheckpoint.Complete,
		Items: lo.Map(items, func(item checkpointItem, _ int) models.FetchedProduct {
			fetched := models.FetchedProduct{ExternalID: item.ExternalID, Product: item.Product}
			if item.Error != nil {
				fetched.Error = errors.New(*item.Error)
			}
			return fetched
		}),
		UpdatedAt: dbCheckpoint.UpdatedAt,
	}, nil
}

// ToDBTask converts models.SyncTask into postgres sync task model.
func ToDBTask(task *models.SyncTask) (*pgmodels.SyncTask, error) {
	stores, err := marshal(task.Stores)
	if err != nil {
		return nil, fmt.Errorf("can't encode task stores: %w", err)
	}

	dbTask := pgmodels.SyncTask{
		ID:        task.ID,
		Type:      string(task.Type),
		Status:    string(task.Status),
		Entity:    string(task.Entity),
		EntityID:  task.EntityID,
		Provider:  string(task.Provider),
		Stores:    stores,
		Attempts:  int32(task.Attempts),
		Error:     task.Error,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}

	if len(task.Payload) > 0 {
		dbTask.Payload = lo.ToPtr(string(task.Payload))
	}

	return &dbTask, nil
}

func fromDBTask(dbTask *pgmodels.SyncTask) (*models.SyncTask, error) {
	task := models.SyncTask{
		ID:        dbTask.ID,
		Type:      models.TaskType(dbTask.Type),
		Status:    models.TaskStatus(dbTask.Status),
		Entity:    models.Entity(dbTask.Entity),
		EntityID:  dbTask.EntityID,
		Provider:  models.ProviderType(dbTask.Provider),
		Attempts:  int(dbTask.Attempts),
		Error:     dbTask.Error,
		CreatedAt: dbTask.CreatedAt,
		UpdatedAt: dbTask.UpdatedAt,
	}

	if err := json.Unmarshal([]byte(dbTask.Stores), &task.Stores); err != nil {
		return nil, fmt.Errorf("can't decode stores of task %s: %w", dbTask.ID, err)
	}

	if dbTask.Payload != nil {
		task.Payload = json.RawMessage(*dbTask.Payload)
	}

	return &task, nil
}

// ToDBIntegration converts models.Credentials into postgres integration model.
func ToDBIntegration(creds *models.Credentials) *pgmodels.Integration {
	return &pgmodels.Integration{
		StoreID:       creds.StoreID,
		Provider:      string(creds.Provider),
		APIKey:        creds.APIKey,
		ProviderID:    creds.ProviderID,
		WebhookSecret: creds.WebhookSecret,
		CreatedAt:     creds.CreatedAt,
		RevokedAt:     creds.RevokedAt,
	}
}

func fromDBIntegration(integration *pgmodels.Integration) *models.Credentials {
	return &models.Credentials{
		StoreID:       integration.StoreID,
		Provider:      models.ProviderType(integration.Provider),
		APIKey:        integration.APIKey,
		ProviderID:    integration.ProviderID,
		WebhookSecret: integration.WebhookSecret,
		CreatedAt:     integration.CreatedAt,
		RevokedAt:     integration.RevokedAt,
	}
}

func marshal(v any) (string, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

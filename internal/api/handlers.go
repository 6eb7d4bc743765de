package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/go-chi/chi/v5"
)

const maxWebhookBodySize = 1 << 20

type runResponse struct {
	ID              int                `json:"id"`
	StoreID         string             `json:"storeId"`
	Provider        string             `json:"provider"`
	CreatedAt       time.Time          `json:"createdAt"`
	FinishedAt      *time.Time         `json:"finishedAt,omitempty"`
	IsSuccess       *bool              `json:"isSuccess,omitempty"`
	StatusMessage   *string            `json:"statusMessage,omitempty"`
	AddedProducts   *int32             `json:"addedProducts,omitempty"`
	UpdatedProducts *int32             `json:"updatedProducts,omitempty"`
	RemovedProducts *int32             `json:"removedProducts,omitempty"`
	FailedProducts  *int32             `json:"failedProducts,omitempty"`
	Errors          []models.SyncError `json:"errors,omitempty"`
}

type integrationRequest struct {
	APIKey        string  `json:"apiKey" validate:"required"`
	ProviderID    string  `json:"providerId"`
	WebhookSecret *string `json:"webhookSecret,omitempty" validate:"omitempty,min=16"`
}

type shippingRatesRequest struct {
	Address models.Address     `json:"address"`
	Items   []models.OrderItem `json:"items" validate:"required,min=1,dive"`
}

type shippingRatesResponse struct {
	Rates []models.ShippingRate `json:"rates"`
}

func (a *API) enqueueTask(w http.ResponseWriter, r *http.Request) {
	var task models.SyncTask
	if err := decodeBody(r, &task); err != nil {
		a.respondErr(w, r, err)
		return
	}

	enqueued, err := a.tasks.Enqueue(r.Context(), task)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusAccepted, enqueued)
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.TaskFilter{
		Status:   models.TaskStatus(query.Get("status")),
		Entity:   models.Entity(query.Get("entity")),
		Provider: models.ProviderType(query.Get("provider")),
		StoreID:  query.Get("store"),
		Limit:    defaultListLimit,
	}

	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", limit))
			return
		}
		filter.Limit = min(n, maxListLimit)
	}

	tasks, err := a.tasks.List(r.Context(), filter)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (a *API) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (a *API) cancelTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.tasks.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (a *API) retryTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.tasks.Retry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusAccepted, task)
}

func (a *API) syncCatalog(w http.ResponseWriter, r *http.Request) {
	task, err := a.tasks.Enqueue(r.Context(), models.CatalogTask(chi.URLParam(r, "storeId"), providerParam(r)))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusAccepted, task)
}

func (a *API) latestRun(w http.ResponseWriter, r *http.Request) {
	run, err := a.storage.LatestRun(r.Context(), chi.URLParam(r, "storeId"), providerParam(r))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, runResponse{
		ID:              run.ID,
		StoreID:         run.StoreID,
		Provider:        string(run.Provider),
		CreatedAt:       run.CreatedAt,
		FinishedAt:      run.FinishedAt,
		IsSuccess:       run.IsSuccess,
		StatusMessage:   run.StatusMessage,
		AddedProducts:   run.AddedProducts,
		UpdatedProducts: run.UpdatedProducts,
		RemovedProducts: run.RemovedProducts,
		FailedProducts:  run.FailedProducts,
		Errors:          run.Errors,
	})
}

func (a *API) saveIntegration(w http.ResponseWriter, r *http.Request) {
	var req integrationRequest
	if err := decodeBody(r, &req); err != nil {
		a.respondErr(w, r, err)
		return
	}

	storeID := chi.URLParam(r, "storeId")
	err := a.storage.SaveCredentials(r.Context(), &models.Credentials{
		StoreID:       storeID,
		Provider:      providerParam(r),
		APIKey:        req.APIKey,
		ProviderID:    req.ProviderID,
		WebhookSecret: req.WebhookSecret,
	})
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	a.adapters.Evict(storeID, providerParam(r))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) revokeIntegration(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeId")
	if err := a.storage.RevokeCredentials(r.Context(), storeID, providerParam(r)); err != nil {
		a.respondErr(w, r, err)
		return
	}

	a.adapters.Evict(storeID, providerParam(r))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) shippingRates(w http.ResponseWriter, r *http.Request) {
	var req shippingRatesRequest
	if err := decodeBody(r, &req); err != nil {
		a.respondErr(w, r, err)
		return
	}

	adapter, err := a.adapters.Open(r.Context(), chi.URLParam(r, "storeId"), providerParam(r))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	rates, err := adapter.GetShippingRates(r.Context(), req.Address, req.Items)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, shippingRatesResponse{Rates: rates})
}

func (a *API) webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "can't read body")
		return
	}

	task, err := a.webhooks.Handle(
		r.Context(),
		chi.URLParam(r, "storeId"),
		providerParam(r),
		r.Header.Get(signatureHeader),
		body,
	)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusAccepted, task)
}

// decodeBody decodes JSON request body into v and validates it.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &platform.ValidationError{Fields: []string{"body"}, Message: err.Error()}
	}

	return models.Validate(v)
}

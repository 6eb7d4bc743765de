package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/platform/storage/gen/postgres/public/table"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/pod-sync/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

const (
	// DefaultRunTimeout is age after which unfinished run is considered abandoned.
	DefaultRunTimeout = 2 * time.Hour

	abandonedRunMessage = "abandoned"
)

// Option is custom configuration of Postgres.
type Option func(p *Postgres)

// Postgres is storage for integrations, products, runs, checkpoints and sync tasks.
type Postgres struct {
	db         *sql.DB
	batchSize  int
	runTimeout time.Duration
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB, ops ...Option) Postgres {
	p := Postgres{
		db:         db,
		batchSize:  500,
		runTimeout: DefaultRunTimeout,
	}

	for _, op := range ops {
		op(&p)
	}

	return p
}

// WithBatchSize sets maximal number of products changed by single statement.
func WithBatchSize(size int) Option {
	return func(p *Postgres) {
		if size > 0 {
			p.batchSize = size
		}
	}
}

// WithRunTimeout sets age after which unfinished run doesn't block new runs.
func WithRunTimeout(timeout time.Duration) Option {
	return func(p *Postgres) {
		if timeout > 0 {
			p.runTimeout = timeout
		}
	}
}

// StartRun creates new unfinished run in database and returns it.
// It returns ErrAlreadyRunning if previous run of store and provider is not finished yet.
// Unfinished run older than run timeout is finished as failed first.
func (p Postgres) StartRun(ctx context.Context, storeID string, provider models.ProviderType) (*models.Run, error) {
	run := &models.Run{
		StoreID:  storeID,
		Provider: provider,
	}

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		if err := lockStoreProvider(ctx, tx, storeID, provider); err != nil {
			return err
		}

		lastRun, err := getLastRun(ctx, tx, storeID, provider)
		if err != nil && !errors.Is(err, qrm.ErrNoRows) {
			return fmt.Errorf("can't get last run from database: %w", err)
		}

		now := time.Now().UTC()
		if lastRun != nil && lastRun.FinishedAt == nil && lastRun.Success == nil {
			if now.Sub(lastRun.CreatedAt) < p.runTimeout {
				return platform.ErrAlreadyRunning
			}
			if err := abandonRun(ctx, tx, lastRun.ID, now); err != nil {
				return fmt.Errorf("can't finish abandoned run %d: %w", lastRun.ID, err)
			}
		}

		newRun := pgmodels.Run{
			StoreID:   storeID,
			Provider:  string(provider),
			CreatedAt: now,
		}
		err = table.Run.INSERT(
			table.Run.StoreID,
			table.Run.Provider,
			table.Run.CreatedAt,
		).
			MODEL(newRun).
			RETURNING(table.Run.ID, table.Run.CreatedAt).
			QueryContext(ctx, tx, &newRun)
		if err != nil {
			return fmt.Errorf("can't insert run into database: %w", err)
		}

		run.ID = int(newRun.ID)
		run.CreatedAt = newRun.CreatedAt

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't add run: %w", err)
	}

	return run, nil
}

// FinishRun sets run as finished and updates run's statistics.
func (p Postgres) FinishRun(ctx context.Context, run *models.Run) error {
	dbRun, err := toDBRun(run)
	if err != nil {
		return err
	}

	columnList := table.Run.MutableColumns.Except(table.Run.StoreID, table.Run.Provider, table.Run.CreatedAt)

	result, err := table.Run.UPDATE(columnList).
		MODEL(dbRun).
		WHERE(table.Run.ID.EQ(pg.Int32(int32(run.ID)))).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't update run: %w", err)
	}

	if rowsAffected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("can't update run: %w", err)
	} else if rowsAffected == 0 {
		return fmt.Errorf("can't update run %d: %w", run.ID, platform.ErrNotFound)
	}

	return nil
}

// LatestRun returns the most recent run of store and provider or platform.ErrNotFound.
func (p Postgres) LatestRun(ctx context.Context, storeID string, provider models.ProviderType) (*models.Run, error) {
	dbRun, err := getLastRun(ctx, p.db, storeID, provider)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("no runs of %s %s: %w", provider, storeID, platform.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get latest run: %w", err)
	}

	return fromDBRun(dbRun)
}

// GetCheckpoint returns saved fetching progress or platform.ErrNotFound.
func (p Postgres) GetCheckpoint(ctx context.Context, storeID string, provider models.ProviderType) (*models.Checkpoint, error) {
	var checkpoint pgmodels.Checkpoint
	err := table.Checkpoint.SELECT(table.Checkpoint.AllColumns).
		WHERE(pg.AND(
			table.Checkpoint.StoreID.EQ(pg.String(storeID)),
			table.Checkpoint.Provider.EQ(pg.String(string(provider))),
		)).
		QueryContext(ctx, p.db, &checkpoint)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, platform.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get checkpoint: %w", err)
	}

	return fromDBCheckpoint(&checkpoint)
}

// SaveCheckpoint inserts or replaces fetching progress of store and provider.
func (p Postgres) SaveCheckpoint(ctx context.Context, checkpoint *models.Checkpoint) error {
	dbCheckpoint, err := toDBCheckpoint(checkpoint)
	if err != nil {
		return err
	}

	_, err = table.Checkpoint.INSERT(table.Checkpoint.AllColumns).
		MODEL(dbCheckpoint).
		ON_CONFLICT(table.Checkpoint.StoreID, table.Checkpoint.Provider).
		DO_UPDATE(
			pg.SET(
				table.Checkpoint.MutableColumns.SET(excludedRow(table.Checkpoint.EXCLUDED.MutableColumns)),
			),
		).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't save checkpoint: %w", err)
	}

	return nil
}

// AppendCheckpoint updates progress of saved checkpoint and appends items fetched since it was saved.
// Returns platform.ErrNotFound when there is no saved checkpoint.
func (p Postgres) AppendCheckpoint(ctx context.Context, checkpoint *models.Checkpoint, items []models.FetchedProduct) error {
	encoded, err := encodeCheckpointItems(items)
	if err != nil {
		return err
	}

	result, err := table.Checkpoint.UPDATE().
		SET(
			table.Checkpoint.Cursor.SET(pg.String(checkpoint.Cursor)),
			table.Checkpoint.Complete.SET(pg.Bool(checkpoint.Complete)),
			table.Checkpoint.Items.SET(pg.StringExp(pg.Raw("checkpoint.items || #items::jsonb", pg.RawArgs{"#items": encoded}))),
			table.Checkpoint.UpdatedAt.SET(pg.TimestampzT(checkpoint.UpdatedAt)),
		).
		WHERE(pg.AND(
			table.Checkpoint.StoreID.EQ(pg.String(checkpoint.StoreID)),
			table.Checkpoint.Provider.EQ(pg.String(string(checkpoint.Provider))),
		)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't append checkpoint: %w", err)
	}

	if rowsAffected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("can't append checkpoint: %w", err)
	} else if rowsAffected == 0 {
		return fmt.Errorf("can't append checkpoint: %w", platform.ErrNotFound)
	}

	return nil
}

// ListProducts returns all products of store and provider, removed ones included.
func (p Postgres) ListProducts(ctx context.Context, storeID string, provider models.ProviderType) ([]models.Product, error) {
	dbProducts := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(pg.AND(
			table.Product.StoreID.EQ(pg.String(storeID)),
			table.Product.Provider.EQ(pg.String(string(provider))),
		)).
		ORDER_BY(table.Product.ExternalID.ASC()).
		QueryContext(ctx, p.db, &dbProducts)
	if err != nil {
		return nil, fmt.Errorf("can't list products: %w", err)
	}

	return fromDBProducts(dbProducts)
}

// ApplySync stores added and updated products, soft deletes removed ones and clears checkpoint
// in single transaction.
func (p Postgres) ApplySync(ctx context.Context, storeID string, provider models.ProviderType, result *models.SyncResult) error {
	now := time.Now().UTC()

	return runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		changed := make([]models.Product, 0, len(result.Added)+len(result.Updated))
		changed = append(changed, result.Added...)
		changed = append(changed, result.Updated...)

		for _, batch := range lo.Chunk(changed, p.batchSize) {
			if err := upsertProducts(ctx, tx, storeID, provider, batch, now); err != nil {
				return fmt.Errorf("can't store synced products: %w", err)
			}
		}

		for _, batch := range lo.Chunk(result.Removed, p.batchSize) {
			if _, err := removeProducts(ctx, tx, storeID, provider, batch, now); err != nil {
				return fmt.Errorf("can't remove products: %w", err)
			}
		}

		_, err := table.Checkpoint.DELETE().
			WHERE(pg.AND(
				table.Checkpoint.StoreID.EQ(pg.String(storeID)),
				table.Checkpoint.Provider.EQ(pg.String(string(provider))),
			)).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't clear checkpoint: %w", err)
		}

		return nil
	})
}

// UpsertProduct inserts product or updates stored product with the same key. Removed product is restored.
func (p Postgres) UpsertProduct(ctx context.Context, product *models.Product) error {
	if err := upsertProducts(ctx, p.db, product.StoreID, product.Provider, []models.Product{*product}, time.Now().UTC()); err != nil {
		return fmt.Errorf("can't upsert product %s: %w", product.ExternalID, err)
	}
	return nil
}

// RemoveProduct soft deletes product. Missing or already removed product is not an error.
func (p Postgres) RemoveProduct(ctx context.Context, storeID string, provider models.ProviderType, externalID string) error {
	if _, err := removeProducts(ctx, p.db, storeID, provider, []string{externalID}, time.Now().UTC()); err != nil {
		return fmt.Errorf("can't remove product %s: %w", externalID, err)
	}
	return nil
}

// UpdateInventory sets availability of stored variants. Levels of unknown products or variants are skipped.
func (p Postgres) UpdateInventory(
	ctx context.Context,
	storeID string,
	provider models.ProviderType,
	levels []models.InventoryLevel,
) error {
	if len(levels) == 0 {
		return nil
	}

	byProduct := lo.GroupBy(levels, func(level models.InventoryLevel) string { return level.ProductID })
	now := time.Now().UTC()

	return runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		ids := lo.Map(lo.Keys(byProduct), func(id string, _ int) pg.Expression { return pg.String(id) })

		dbProducts := []pgmodels.Product{}
		err := table.Product.SELECT(table.Product.AllColumns).
			WHERE(pg.AND(
				table.Product.StoreID.EQ(pg.String(storeID)),
				table.Product.Provider.EQ(pg.String(string(provider))),
				table.Product.ExternalID.IN(ids...),
			)).
			FOR(pg.UPDATE()).
			QueryContext(ctx, tx, &dbProducts)
		if err != nil {
			return fmt.Errorf("can't get products: %w", err)
		}

		products, err := fromDBProducts(dbProducts)
		if err != nil {
			return err
		}

		for ix := range products {
			if !applyInventory(&products[ix], byProduct[products[ix].ExternalID]) {
				continue
			}

			variants, err := marshal(products[ix].Variants)
			if err != nil {
				return fmt.Errorf("can't encode variants of %s: %w", products[ix].ExternalID, err)
			}

			_, err = table.Product.UPDATE().
				SET(
					table.Product.Variants.SET(pg.String(variants)),
					table.Product.UpdatedAt.SET(pg.TimestampzT(now)),
				).
				WHERE(table.Product.ID.EQ(pg.Int32(int32(products[ix].ID)))).
				ExecContext(ctx, tx)
			if err != nil {
				return fmt.Errorf("can't update inventory of %s: %w", products[ix].ExternalID, err)
			}
		}

		return nil
	})
}

// GetCredentials returns store's credentials for provider or platform.ErrNotFound.
// Revoked credentials are returned too, caller decides how to treat them.
func (p Postgres) GetCredentials(ctx context.Context, storeID string, provider models.ProviderType) (*models.Credentials, error) {
	var integration pgmodels.Integration
	err := table.Integration.SELECT(table.Integration.AllColumns).
		WHERE(pg.AND(
			table.Integration.StoreID.EQ(pg.String(storeID)),
			table.Integration.Provider.EQ(pg.String(string(provider))),
		)).
		QueryContext(ctx, p.db, &integration)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("no %s integration of store %s: %w", provider, storeID, platform.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get credentials: %w", err)
	}

	return fromDBIntegration(&integration), nil
}

// SaveCredentials inserts or replaces store's credentials. Saving revoked integration activates it again.
func (p Postgres) SaveCredentials(ctx context.Context, creds *models.Credentials) error {
	integration := ToDBIntegration(creds)
	integration.RevokedAt = nil
	if integration.CreatedAt.IsZero() {
		integration.CreatedAt = time.Now().UTC()
	}

	columnList := table.Integration.MutableColumns.Except(table.Integration.CreatedAt)

	_, err := table.Integration.INSERT(table.Integration.AllColumns).
		MODEL(integration).
		ON_CONFLICT(table.Integration.StoreID, table.Integration.Provider).
		DO_UPDATE(
			pg.SET(
				columnList.SET(excludedRow(table.Integration.EXCLUDED.MutableColumns.Except(table.Integration.EXCLUDED.CreatedAt))),
			),
		).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't save credentials: %w", err)
	}

	return nil
}

// RevokeCredentials marks store's integration as revoked. Returns platform.ErrNotFound for unknown integration.
func (p Postgres) RevokeCredentials(ctx context.Context, storeID string, provider models.ProviderType) error {
	result, err := table.Integration.UPDATE().
		SET(table.Integration.RevokedAt.SET(pg.TimestampzT(time.Now().UTC()))).
		WHERE(pg.AND(
			table.Integration.StoreID.EQ(pg.String(storeID)),
			table.Integration.Provider.EQ(pg.String(string(provider))),
			table.Integration.RevokedAt.IS_NULL(),
		)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't revoke credentials: %w", err)
	}

	if rowsAffected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("can't revoke credentials: %w", err)
	} else if rowsAffected == 0 {
		return fmt.Errorf("no active %s integration of store %s: %w", provider, storeID, platform.ErrNotFound)
	}

	return nil
}

// ListIntegrations returns credentials of all active integrations.
func (p Postgres) ListIntegrations(ctx context.Context) ([]models.Credentials, error) {
	integrations := []pgmodels.Integration{}
	err := table.Integration.SELECT(table.Integration.AllColumns).
		WHERE(table.Integration.RevokedAt.IS_NULL()).
		ORDER_BY(table.Integration.StoreID.ASC(), table.Integration.Provider.ASC()).
		QueryContext(ctx, p.db, &integrations)
	if err != nil {
		return nil, fmt.Errorf("can't list integrations: %w", err)
	}

	return lo.Map(integrations, func(_ pgmodels.Integration, ix int) models.Credentials {
		return *fromDBIntegration(&integrations[ix])
	}), nil
}

// SaveTask inserts task or updates stored task with the same id.
func (p Postgres) SaveTask(ctx context.Context, task *models.SyncTask) error {
	dbTask, err := ToDBTask(task)
	if err != nil {
		return err
	}

	columnList := table.SyncTask.MutableColumns.Except(table.SyncTask.CreatedAt)

	_, err = table.SyncTask.INSERT(table.SyncTask.AllColumns).
		MODEL(dbTask).
		ON_CONFLICT(table.SyncTask.ID).
		DO_UPDATE(
			pg.SET(
				columnList.SET(excludedRow(table.SyncTask.EXCLUDED.MutableColumns.Except(table.SyncTask.EXCLUDED.CreatedAt))),
			),
		).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't save task %s: %w", task.ID, err)
	}

	return nil
}

// SaveTaskIf updates stored task only when its status is still from.
// Returns platform.ErrConflict when task is missing or its status changed.
func (p Postgres) SaveTaskIf(ctx context.Context, task *models.SyncTask, from models.TaskStatus) error {
	dbTask, err := ToDBTask(task)
	if err != nil {
		return err
	}

	result, err := table.SyncTask.UPDATE(table.SyncTask.MutableColumns.Except(table.SyncTask.CreatedAt)).
		MODEL(dbTask).
		WHERE(pg.AND(
			table.SyncTask.ID.EQ(pg.String(task.ID)),
			table.SyncTask.Status.EQ(pg.String(string(from))),
		)).
		ExecContext(ctx, p.db)
	if err != nil {
		return fmt.Errorf("can't save task %s: %w", task.ID, err)
	}

	if rowsAffected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("can't save task %s: %w", task.ID, err)
	} else if rowsAffected == 0 {
		return fmt.Errorf("task %s is not %s: %w", task.ID, from, platform.ErrConflict)
	}

	return nil
}

// GetTask returns task by id or platform.ErrNotFound.
func (p Postgres) GetTask(ctx context.Context, id string) (*models.SyncTask, error) {
	var dbTask pgmodels.SyncTask
	err := table.SyncTask.SELECT(table.SyncTask.AllColumns).
		WHERE(table.SyncTask.ID.EQ(pg.String(id))).
		QueryContext(ctx, p.db, &dbTask)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, platform.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get task: %w", err)
	}

	return fromDBTask(&dbTask)
}

// ListTasks returns tasks matching filter, newest first.
func (p Postgres) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.SyncTask, error) {
	conditions := []pg.BoolExpression{pg.Bool(true)}
	if filter.Status != "" {
		conditions = append(conditions, table.SyncTask.Status.EQ(pg.String(string(filter.Status))))
	}
	if filter.Entity != "" {
		conditions = append(conditions, table.SyncTask.Entity.EQ(pg.String(string(filter.Entity))))
	}
	if filter.Provider != "" {
		conditions = append(conditions, table.SyncTask.Provider.EQ(pg.String(string(filter.Provider))))
	}
	if filter.StoreID != "" {
		stores, err := marshal([]string{filter.StoreID})
		if err != nil {
			return nil, fmt.Errorf("can't encode store filter: %w", err)
		}
		conditions = append(conditions, pg.RawBool("sync_task.stores @> #stores::jsonb", pg.RawArgs{"#stores": stores}))
	}

	stmt := table.SyncTask.SELECT(table.SyncTask.AllColumns).
		WHERE(pg.AND(conditions...)).
		ORDER_BY(table.SyncTask.CreatedAt.DESC(), table.SyncTask.ID.DESC())
	if filter.Limit > 0 {
		stmt = stmt.LIMIT(int64(filter.Limit))
	}

	return p.queryTasks(ctx, stmt)
}

// ListUnfinishedTasks returns pending and processing tasks, oldest first.
func (p Postgres) ListUnfinishedTasks(ctx context.Context) ([]models.SyncTask, error) {
	stmt := table.SyncTask.SELECT(table.SyncTask.AllColumns).
		WHERE(table.SyncTask.Status.IN(
			pg.String(string(models.TaskPending)),
			pg.String(string(models.TaskProcessing)),
		)).
		ORDER_BY(table.SyncTask.CreatedAt.ASC(), table.SyncTask.ID.ASC())

	return p.queryTasks(ctx, stmt)
}

func (p Postgres) queryTasks(ctx context.Context, stmt pg.SelectStatement) ([]models.SyncTask, error) {
	dbTasks := []pgmodels.SyncTask{}
	if err := stmt.QueryContext(ctx, p.db, &dbTasks); err != nil {
		return nil, fmt.Errorf("can't list tasks: %w", err)
	}

	tasks := make([]models.SyncTask, 0, len(dbTasks))
	for ix := range dbTasks {
		task, err := fromDBTask(&dbTasks[ix])
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, nil
}

// upsertProducts inserts products or updates stored ones with the same key.
// Stored creation time is kept and removed products are restored.
func upsertProducts(
	ctx context.Context,
	db qrm.DB,
	storeID string,
	provider models.ProviderType,
	products []models.Product,
	now time.Time,
) error {
	if len(products) == 0 {
		return nil
	}

	dbProducts := make([]pgmodels.Product, 0, len(products))
	for ix := range products {
		product := products[ix]
		product.StoreID = storeID
		product.Provider = provider
		product.DeletedAt = nil
		if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}
		if product.UpdatedAt.IsZero() {
			product.UpdatedAt = now
		}

		dbProduct, err := ToDBProduct(&product)
		if err != nil {
			return err
		}
		dbProducts = append(dbProducts, *dbProduct)
	}

	insertColumns := table.Product.AllColumns.Except(table.Product.ID)
	updateColumns := table.Product.MutableColumns.Except(
		table.Product.StoreID,
		table.Product.Provider,
		table.Product.ExternalID,
		table.Product.CreatedAt,
	)
	excluded := table.Product.EXCLUDED.MutableColumns.Except(
		table.Product.EXCLUDED.StoreID,
		table.Product.EXCLUDED.Provider,
		table.Product.EXCLUDED.ExternalID,
		table.Product.EXCLUDED.CreatedAt,
	)

	_, err := table.Product.INSERT(insertColumns).
		MODELS(dbProducts).
		ON_CONFLICT(table.Product.StoreID, table.Product.Provider, table.Product.ExternalID).
		DO_UPDATE(
			pg.SET(
				updateColumns.SET(excludedRow(excluded)),
			),
		).
		ExecContext(ctx, db)
	if err != nil {
		return fmt.Errorf("can't upsert products into database: %w", err)
	}

	return nil
}

// removeProducts soft deletes active products. Returns number of removed products.
func removeProducts(
	ctx context.Context,
	db qrm.DB,
	storeID string,
	provider models.ProviderType,
	externalIDs []string,
	now time.Time,
) (int64, error) {
	if len(externalIDs) == 0 {
		return 0, nil
	}

	ids := lo.Map(externalIDs, func(id string, _ int) pg.Expression { return pg.String(id) })

	result, err := table.Product.UPDATE().
		SET(
			table.Product.DeletedAt.SET(pg.TimestampzT(now)),
			table.Product.UpdatedAt.SET(pg.TimestampzT(now)),
		).
		WHERE(pg.AND(
			table.Product.StoreID.EQ(pg.String(storeID)),
			table.Product.Provider.EQ(pg.String(string(provider))),
			table.Product.ExternalID.IN(ids...),
			table.Product.DeletedAt.IS_NULL(),
		)).
		ExecContext(ctx, db)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// applyInventory sets variants availability from levels. Reports whether any variant changed.
func applyInventory(product *models.Product, levels []models.InventoryLevel) bool {
	available := lo.Associate(levels, func(level models.InventoryLevel) (string, bool) {
		return level.VariantID, level.Available
	})

	changed := false
	for ix := range product.Variants {
		value, ok := available[product.Variants[ix].ExternalID]
		if !ok || product.Variants[ix].Available == value {
			continue
		}
		product.Variants[ix].Available = value
		changed = true
	}

	return changed
}

func fromDBProducts(dbProducts []pgmodels.Product) ([]models.Product, error) {
	products := make([]models.Product, 0, len(dbProducts))
	for ix := range dbProducts {
		product, err := FromDBProduct(&dbProducts[ix])
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func getLastRun(ctx context.Context, db qrm.DB, storeID string, provider models.ProviderType) (*pgmodels.Run, error) {
	var run pgmodels.Run
	err := table.Run.SELECT(table.Run.AllColumns).
		WHERE(pg.AND(
			table.Run.StoreID.EQ(pg.String(storeID)),
			table.Run.Provider.EQ(pg.String(string(provider))),
		)).
		ORDER_BY(table.Run.CreatedAt.DESC(), table.Run.ID.DESC()).
		LIMIT(1).
		QueryContext(ctx, db, &run)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

func abandonRun(ctx context.Context, db qrm.DB, id int32, now time.Time) error {
	_, err := table.Run.UPDATE().
		SET(
			table.Run.FinishedAt.SET(pg.TimestampzT(now)),
			table.Run.Success.SET(pg.Bool(false)),
			table.Run.StatusMessage.SET(pg.String(abandonedRunMessage)),
		).
		WHERE(table.Run.ID.EQ(pg.Int32(id))).
		ExecContext(ctx, db)
	return err
}

// lockStoreProvider serializes run bookkeeping of store and provider until transaction ends.
func lockStoreProvider(ctx context.Context, tx *sql.Tx, storeID string, provider models.ProviderType) error {
	_, err := pg.RawStatement(
		"SELECT pg_advisory_xact_lock(hashtext(#key))",
		pg.RawArgs{"#key": fmt.Sprintf("%s/%s", provider, storeID)},
	).ExecContext(ctx, tx)
	if err != nil {
		return fmt.Errorf("can't lock %s %s: %w", provider, storeID, err)
	}
	return nil
}

func excludedRow(columns pg.ColumnList) pg.Expression {
	expressions := make([]pg.Expression, 0, len(columns))
	for _, col := range columns {
		expressions = append(expressions, col)
	}
	return pg.ROW(expressions...)
}

func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}

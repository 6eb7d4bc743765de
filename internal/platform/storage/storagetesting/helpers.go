package storagetesting

import (
	"database/sql"
	"os"
	"testing"

	pgmodels "github.com/MichalMitros/pod-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/pod-sync/internal/platform/storage/gen/postgres/public/table"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

// Open opens connection to DB. Test is skipped when DATABASE_URL is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	return db
}

// InsertIntegrations is a helper test function to insert integrations.
func InsertIntegrations(t *testing.T, exc qrm.Executable, integrations ...pgmodels.Integration) {
	t.Helper()

	if len(integrations) == 0 {
		return
	}

	_, err := table.Integration.INSERT(table.Integration.AllColumns).MODELS(integrations).Exec(exc)
	if err != nil {
		t.Fatal("can't insert integrations", err)
	}
}

// InsertRuns is a helper test function to insert runs.
func InsertRuns(t *testing.T, exc qrm.Executable, runs ...pgmodels.Run) {
	t.Helper()

	if len(runs) == 0 {
		return
	}

	_, err := table.Run.INSERT(table.Run.AllColumns.Except(table.Run.ID)).MODELS(runs).Exec(exc)
	if err != nil {
		t.Fatal("can't insert runs", err)
	}
}

// InsertProducts is a helper test function to insert products.
func InsertProducts(t *testing.T, exc qrm.Executable, products ...pgmodels.Product) {
	t.Helper()

	if len(products) == 0 {
		return
	}

	_, err := table.Product.INSERT(table.Product.AllColumns.Except(table.Product.ID)).MODELS(products).Exec(exc)
	if err != nil {
		t.Fatal("can't insert products", err)
	}
}

// GetRuns is a helper test function to get all runs.
func GetRuns(t *testing.T, queryable qrm.Queryable) []pgmodels.Run {
	t.Helper()

	runs := []pgmodels.Run{}
	err := table.Run.SELECT(table.Run.AllColumns).
		WHERE(table.Run.ID.IS_NOT_NULL()).
		ORDER_BY(table.Run.ID.ASC()).
		Query(queryable, &runs)
	if err != nil {
		t.Fatal("can't get runs", err)
	}

	return runs
}

// GetProducts is a helper test function to get all products of store.
func GetProducts(t *testing.T, queryable qrm.Queryable, storeID string) []pgmodels.Product {
	t.Helper()

	products := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.StoreID.EQ(pg.String(storeID))).
		ORDER_BY(table.Product.ExternalID.ASC()).
		Query(queryable, &products)
	if err != nil {
		t.Fatal("can't get products", err)
	}

	return products
}

// CountCheckpoints is a helper test function to count stored checkpoints.
func CountCheckpoints(t *testing.T, queryable qrm.Queryable) int {
	t.Helper()

	checkpoints := []pgmodels.Checkpoint{}
	err := table.Checkpoint.SELECT(table.Checkpoint.StoreID, table.Checkpoint.Provider).
		Query(queryable, &checkpoints)
	if err != nil {
		t.Fatal("can't get checkpoints", err)
	}

	return len(checkpoints)
}

// CleanupData is a helper test function to delete all data.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.SyncTask.DELETE().WHERE(table.SyncTask.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete tasks data", err)
	}

	_, err = table.Checkpoint.DELETE().WHERE(table.Checkpoint.StoreID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete checkpoints data", err)
	}

	_, err = table.Product.DELETE().WHERE(table.Product.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete products data", err)
	}

	_, err = table.Run.DELETE().WHERE(table.Run.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete runs data", err)
	}

	_, err = table.Integration.DELETE().WHERE(table.Integration.StoreID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete integrations data", err)
	}
}

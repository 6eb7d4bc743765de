package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	pgmodels "github.com/MichalMitros/pod-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/pod-sync/internal/platform/storage/storagetesting"
	"github.com/go-faker/faker/v4"
	"github.com/go-jet/jet/v2/qrm"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"
	// ShopID is Printify shop served by mocked server.
	ShopID = "42"
)

// PrintifyProduct is product record in Printify API format.
type PrintifyProduct struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Variants    []PrintifyVariant `json:"variants"`
}

// PrintifyVariant is variant record in Printify API format.
type PrintifyVariant struct {
	ID          int    `json:"id"`
	SKU         string `json:"sku"`
	Title       string `json:"title"`
	Price       int    `json:"price"`
	IsEnabled   bool   `json:"is_enabled"`
	IsAvailable bool   `json:"is_available"`
}

// WaitForRuns is blocking helper function, returns all runs after n of them are finished.
func WaitForRuns(t *testing.T, queryable qrm.Queryable, n int) []pgmodels.Run {
	t.Helper()

	var runs []pgmodels.Run
	require.Eventually(t, func() bool {
		runs = storagetesting.GetRuns(t, queryable)
		finished := 0
		for ix := range runs {
			if runs[ix].FinishedAt != nil {
				finished++
			}
		}
		return finished >= n
	}, 30*time.Second, 250*time.Millisecond, "runs weren't finished in time")

	return runs
}

// PrepareMockedPrintify is helper function for mocking Printify API of single shop.
// Returns function for setting catalog to return, catalog number is from 0 to len(catalogs) exclusive.
func PrepareMockedPrintify(t *testing.T, catalogs [][]PrintifyProduct) (*httptest.Server, func(int)) {
	t.Helper()

	var catalogIx atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /shops.json", func(wrt http.ResponseWriter, _ *http.Request) {
		writeJSON(t, wrt, []map[string]any{{"id": 42, "title": "E2E shop"}})
	})
	mux.HandleFunc(fmt.Sprintf("GET /shops/%s/products.json", ShopID), func(wrt http.ResponseWriter, _ *http.Request) {
		catalog := catalogs[catalogIx.Load()]
		writeJSON(t, wrt, map[string]any{
			"current_page": 1,
			"last_page":    1,
			"total":        len(catalog),
			"data":         catalog,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, func(i int) { catalogIx.Store(int32(i)) }
}

// GenerateCatalog generates n products with ExternalID from p01 to pn.
func GenerateCatalog(t *testing.T, n int) []PrintifyProduct {
	t.Helper()

	results := make([]PrintifyProduct, n)

	for ix := range n {
		results[ix] = PrintifyProduct{
			ID:          fmt.Sprintf("p%02d", ix+1),
			Title:       faker.Sentence(),
			Description: faker.Paragraph(),
			Variants: []PrintifyVariant{{
				ID:          1000 + ix,
				SKU:         faker.UUIDDigit(),
				Title:       faker.Word(),
				Price:       1000 + ix*10,
				IsEnabled:   true,
				IsAvailable: true,
			}},
		}
	}

	return results
}

// DeclareRMQExchange is helper function for declaring RMQ exchange.
func DeclareRMQExchange(t *testing.T, ch *amqp.Channel, exchange string) {
	t.Helper()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		require.FailNow(t, "can't declare exchange", exchange, err)
	}
}

// DeclareRMQQueue is helper function for declaring RMQ queue and binding and cleaning them after test is finished.
func DeclareRMQQueue(t *testing.T, channel *amqp.Channel, queueName, exchange, routingKey string) {
	t.Helper()

	_, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't declare queue", queueName, err)
	}

	err = channel.QueueBind(queueName, routingKey, exchange, false, nil)
	if err != nil {
		require.FailNow(t, "can't bind queue", queueName, routingKey, err)
	}

	t.Cleanup(func() {
		_, err := channel.QueueDelete(queueName, false, false, true)
		if err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}

func writeJSON(t *testing.T, wrt http.ResponseWriter, body any) {
	wrt.Header().Set(contentType, "application/json")
	if err := json.NewEncoder(wrt).Encode(body); err != nil {
		t.Error("can't encode response", err)
	}
}

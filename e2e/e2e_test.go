package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/pod-sync/cmd/syncer/config"
	"github.com/MichalMitros/pod-sync/e2e/helpers"
	"github.com/MichalMitros/pod-sync/internal/dispatcher"
	"github.com/MichalMitros/pod-sync/internal/handler"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/pod-sync/internal/platform/storage"
	pgmodels "github.com/MichalMitros/pod-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/pod-sync/internal/platform/storage/storagetesting"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/MichalMitros/pod-sync/internal/provider/registry"
	"github.com/MichalMitros/pod-sync/internal/reconciler"
	"github.com/MichalMitros/pod-sync/internal/syncer"
	"github.com/MichalMitros/pod-sync/internal/taskqueue"
	"github.com/MichalMitros/pod-sync/pkg/v1/commander"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

const (
	userAgent = "pod-sync-e2e-test/0.1.0"
	exchange  = "pod-sync-e2e"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	os.Exit(m.Run())
}

func TestE2E(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" || os.Getenv("RABBITMQ_URL") == "" {
		t.Skip("please provide DATABASE_URL and RABBITMQ_URL environment variables")
	}
	suite.Run(t, new(E2ETestSuite))
}

type E2ETestSuite struct {
	suite.Suite
	cfg        *config.Config
	connection *amqp.Connection
	channel    *amqp.Channel
	db         *sql.DB
}

func (s *E2ETestSuite) SetupSuite() {
	cfg, err := config.Load()
	if err != nil {
		s.Require().FailNow("can't load config", err)
	}
	s.cfg = &cfg

	if s.connection, err = amqp.Dial(cfg.RabbitMQ.URL); err != nil {
		s.Require().FailNow("can't open RabbitMQ connection", err)
	}

	if s.channel, err = s.connection.Channel(); err != nil {
		s.Require().FailNow("can't open RabbitMQ channel", err)
	}

	helpers.DeclareRMQExchange(s.T(), s.channel, exchange)

	if s.db, err = sql.Open("postgres", cfg.DatabaseURL); err != nil {
		s.Require().FailNow("can't open Postgres connection", err)
	}
}

func (s *E2ETestSuite) SetupTest() {
	storagetesting.CleanupData(s.T(), s.db)
}

func (s *E2ETestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.db)
	if err := s.db.Close(); err != nil {
		s.FailNow("can't close Postgres connection", err)
	}

	if err := s.channel.Close(); err != nil {
		s.FailNow("can't close RabbitMQ channel", err)
	}

	if err := s.connection.Close(); err != nil {
		s.FailNow("can't close RabbitMQ connection", err)
	}
}

func (s *E2ETestSuite) TestCatalogSync() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prepare test RMQ queue
	queueName := fmt.Sprintf("pod-sync-e2e-test-%d", rand.Int63n(100000))
	routingKey := fmt.Sprintf("pod-sync.cmd.e2e.%d", rand.Int63n(100000))
	helpers.DeclareRMQQueue(s.T(), s.channel, queueName, exchange, routingKey)

	// Prepare test data
	storeID := fmt.Sprintf("e2e-store-%d", rand.Intn(100000))
	storagetesting.InsertIntegrations(s.T(), s.db, pgmodels.Integration{
		StoreID:    storeID,
		Provider:   string(models.ProviderPrintify),
		APIKey:     "e2e-token",
		ProviderID: helpers.ShopID,
	})

	catalog := helpers.GenerateCatalog(s.T(), 45)
	firstCatalog := catalog[:25]
	// products p11-p45, p11-p15 with changed titles, so first 10 should be removed
	secondCatalog := append([]helpers.PrintifyProduct{}, catalog[10:]...)
	for ix := range 5 {
		secondCatalog[ix].Title += " v2"
	}

	printifySrv, setCatalog := helpers.PrepareMockedPrintify(s.T(), [][]helpers.PrintifyProduct{firstCatalog, secondCatalog})
	setCatalog(0)

	// Prepare test logger
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)

	// Prepare sync pipeline
	rmq, err := rabbitmq.NewRabbitMQ(s.connection, exchange)
	if err != nil {
		s.Require().FailNow("can't create RabbitMQ client", err)
	}

	store := storage.NewPostgres(s.db)
	adapters := registry.NewRegistry(store, provider.Config{
		Client:    printifySrv.Client(),
		UserAgent: userAgent,
		BaseURL:   printifySrv.URL,
		PageSize:  s.cfg.PageSize,
		Syncer:    syncer.NewSyncer(store, reconciler.NewReconciler(), &logger),
		Logger:    &logger,
	}, &logger)
	queue := taskqueue.NewQueue(store, dispatcher.NewDispatcher(adapters, store, rmq, &logger), &logger)

	go func() {
		s.NoError(queue.Run(ctx), "queue shouldn't return any error")
	}()

	// Prepare and run handler
	han := handler.NewHandler(rmq, queue, handler.NewWebhooks(store, queue, &logger), &logger)
	s.Require().NoError(han.Start(ctx, queueName), "handler shouldn't return any error")

	publisher := commander.NewSyncCommander(commander.NewRabbitMQSender(rmq, routingKey))

	// Send catalog sync command
	if err := publisher.SendCatalogSync(ctx, storeID, string(models.ProviderPrintify)); err != nil {
		s.Require().FailNow("can't publish sync command", err)
	}

	// Wait for catalog sync to be finished
	firstRun := helpers.WaitForRuns(s.T(), s.db, 1)[0]

	s.True(*firstRun.Success, "first run should succeed")
	s.Equal(int32(25), *firstRun.AddedProducts, "should return correct number of added products")
	s.Equal(int32(0), *firstRun.UpdatedProducts, "should return correct number of updated products")
	s.Equal(int32(0), *firstRun.RemovedProducts, "should return correct number of removed products")
	s.Equal(int32(0), *firstRun.FailedProducts, "should return correct number of failed products")
	s.Len(storagetesting.GetProducts(s.T(), s.db, storeID), 25, "should store all products")

	// Second iteration
	setCatalog(1)

	if err := publisher.SendCatalogSync(ctx, storeID, string(models.ProviderPrintify)); err != nil {
		s.Require().FailNow("can't publish sync command", err)
	}

	secondRun := helpers.WaitForRuns(s.T(), s.db, 2)[1]

	s.Eventually(func() bool {
		tasks, err := store.ListTasks(context.Background(), models.TaskFilter{StoreID: storeID})
		return err == nil && len(tasks) == 2 &&
			lo.EveryBy(tasks, func(task models.SyncTask) bool { return task.Status == models.TaskCompleted })
	}, 10*time.Second, 100*time.Millisecond, "both tasks should be completed")

	// Cancel context to stop consumer and workers
	cancel()
	<-rmq.Done()

	dbProducts := storagetesting.GetProducts(s.T(), s.db, storeID)

	s.True(*secondRun.Success, "second run should succeed")
	s.Equal(int32(20), *secondRun.AddedProducts, "should return correct number of added products")
	s.Equal(int32(5), *secondRun.UpdatedProducts, "should return correct number of updated products")
	s.Equal(int32(10), *secondRun.RemovedProducts, "should return correct number of removed products")
	s.Equal(int32(0), *secondRun.FailedProducts, "should return correct number of failed products")

	s.Require().Len(dbProducts, 45, "removed products should be kept")
	for ix, product := range dbProducts {
		s.Equal(catalog[ix].ID, product.ExternalID)
		s.Equalf(ix < 10, product.DeletedAt != nil, "product %s has incorrect removal state", product.ExternalID)
	}
	s.True(strings.HasSuffix(dbProducts[10].Title, " v2"), "changed product should be updated")
	s.Zero(storagetesting.CountCheckpoints(s.T(), s.db), "checkpoint should be cleared after sync")
}

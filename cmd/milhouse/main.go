package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"milhouse/internal/app/commands"
	contactsapp "milhouse/internal/app/handlers/contacts"
	heroapp "milhouse/internal/app/handlers/hero"
	loansapp "milhouse/internal/app/handlers/loans"
	mediaapp "milhouse/internal/app/handlers/media"
	propertiesapp "milhouse/internal/app/handlers/properties"
	"milhouse/internal/app/middleware"
	appoutbox "milhouse/internal/app/outbox"
	"milhouse/internal/app/queries"
	domaincontacts "milhouse/internal/domain/contacts"
	domainhero "milhouse/internal/domain/hero"
	domainmedia "milhouse/internal/domain/media"
	domainproperties "milhouse/internal/domain/properties"
	"milhouse/internal/infra/broker/kafka"
	"milhouse/internal/infra/cache"
	"milhouse/internal/infra/config"
	mongostore "milhouse/internal/infra/db/mongo"
	ginserver "milhouse/internal/infra/http/gin"
	"milhouse/internal/infra/imaging"
	"milhouse/internal/infra/obs"
	"milhouse/internal/infra/outbox"
	"milhouse/internal/infra/storage/memory"
	"milhouse/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(os.Getenv("APP_ENV")).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	if err := app.seed(ctx, cfg.SeedFile, logger); err != nil {
		logger.Warn("seed import failed", "error", err, "path", cfg.SeedFile)
	}
	app.startBackground(ctx, logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready:   app.ready,
		Timeout: 2 * time.Second,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "mongo", cfg.UsesMongo(), "image_store", cfg.ResolvedImageStore())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	repo     domainproperties.Repository
	snapshot *cache.Snapshot
	mongo    *mongostore.Client
	producer *kafka.Producer
	worker   *outbox.Worker
}

type stores struct {
	properties  domainproperties.Repository
	images      domainmedia.Store
	hero        domainhero.Store
	contacts    domaincontacts.Repository
	idempotency middleware.IdempotencyStore
	outbox      appoutbox.Outbox
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{}

	var publisher appoutbox.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, err
		}
		app.producer = producer
		publisher = kafka.EventPublisher{Sender: producer, TopicPrefix: cfg.KafkaTopicPrefix}
		logger.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers)
	}

	st, err := app.buildStores(ctx, cfg, publisher, logger)
	if err != nil {
		app.close(logger)
		return nil, err
	}
	app.repo = st.properties
	app.snapshot = cache.NewSnapshot(st.properties, cfg.SnapshotTTL)

	inspector := imaging.NewInspector(cfg.MaxImageBytes())
	encoder := appoutbox.JSONEventEncoder{}
	deps := propertiesapp.Deps{
		Repo:     st.properties,
		Snapshot: app.snapshot,
		Outbox:   st.outbox,
		Encoder:  encoder,
		Logger:   logger,
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, propertiesapp.CreatePropertyCommand{}.Key(), &propertiesapp.CreatePropertyHandler{Deps: deps})
	commands.RegisterHandler(commandBus, propertiesapp.UpdatePropertyCommand{}.Key(), &propertiesapp.UpdatePropertyHandler{Deps: deps})
	commands.RegisterHandler(commandBus, propertiesapp.DeletePropertyCommand{}.Key(), &propertiesapp.DeletePropertyHandler{Deps: deps})
	commands.RegisterHandler(commandBus, mediaapp.UploadImagesCommand{}.Key(), &mediaapp.UploadImagesHandler{
		Store:     st.images,
		Inspector: inspector,
		MaxBatch:  cfg.UploadMaxBatch,
		Logger:    logger,
	})
	commands.RegisterHandler(commandBus, heroapp.SaveHeroCommand{}.Key(), &heroapp.SaveHeroHandler{Store: st.hero, Logger: logger})
	commands.RegisterHandler(commandBus, heroapp.UploadHeroImageCommand{}.Key(), &heroapp.UploadHeroImageHandler{Images: st.images, Inspector: inspector})
	commands.RegisterHandler(commandBus, contactsapp.SubmitContactCommand{}.Key(), &contactsapp.SubmitContactHandler{
		Repo:    st.contacts,
		Outbox:  st.outbox,
		Encoder: encoder,
		Logger:  logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, propertiesapp.ListPropertiesQuery{}.Key(), &propertiesapp.ListPropertiesHandler{Snapshot: app.snapshot})
	queries.RegisterHandler(queryBus, propertiesapp.GetPropertyQuery{}.Key(), &propertiesapp.GetPropertyHandler{Repo: st.properties})
	queries.RegisterHandler(queryBus, propertiesapp.SearchCatalogQuery{}.Key(), &propertiesapp.SearchCatalogHandler{Snapshot: app.snapshot})
	queries.RegisterHandler(queryBus, propertiesapp.MapMarkersQuery{}.Key(), &propertiesapp.MapMarkersHandler{Snapshot: app.snapshot})
	queries.RegisterHandler(queryBus, loansapp.QuoteLoanQuery{}.Key(), &loansapp.QuoteLoanHandler{Repo: st.properties})
	queries.RegisterHandler(queryBus, loansapp.ListBanksQuery{}.Key(), loansapp.ListBanksHandler{})
	queries.RegisterHandler(queryBus, mediaapp.GetImageQuery{}.Key(), &mediaapp.GetImageHandler{Store: st.images})
	queries.RegisterHandler(queryBus, heroapp.GetHeroQuery{}.Key(), &heroapp.GetHeroHandler{Store: st.hero})
	queries.RegisterHandler(queryBus, contactsapp.ListContactsQuery{}.Key(), &contactsapp.ListContactsHandler{Repo: st.contacts})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
		middleware.Validation(middleware.ValidatorFunc(propertiesapp.Validate)),
		middleware.Idempotency(st.idempotency, nil),
		middleware.OutboxFlush(st.outbox, logger),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus, middleware.QueryLogging(logger))

	app.handlers = ginserver.Handlers{
		Properties: ginserver.PropertyHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		Catalog:    ginserver.CatalogHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Loans:      ginserver.LoanHandler{Queries: queryBusWithMiddleware, Logger: logger},
		Media:      ginserver.MediaHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		Hero:       ginserver.HeroHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		Contacts:   ginserver.ContactHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
	}
	return app, nil
}

// buildStores picks mongo or memory persistence. With mongo, change events go
// through the durable outbox collection and are delivered by the worker.
func (a *application) buildStores(ctx context.Context, cfg config.Config, publisher appoutbox.Publisher, logger *slog.Logger) (stores, error) {
	var st stores
	if cfg.UsesMongo() {
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return st, err
		}
		a.mongo = client
		st.properties = mongostore.NewPropertyRepository(client.DB, cfg.MongoCollection, logger)
		st.hero = mongostore.NewHeroStore(client.DB)
		st.contacts = mongostore.NewContactRepository(client.DB)
		st.idempotency = mongostore.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		if publisher != nil {
			store := outbox.NewStore(client.DB)
			st.outbox = store
			a.worker = &outbox.Worker{
				Queue:     store,
				Publisher: publisher,
				Interval:  cfg.OutboxPollInterval,
				Backoff:   cfg.RetryBackoff,
				Logger:    logger,
			}
		} else {
			st.outbox = memory.NewOutbox(nil)
		}
		logger.Info("mongo persistence enabled", "db", cfg.MongoDB, "collection", cfg.MongoCollection)
	} else {
		st.properties = memory.NewPropertyRepository()
		st.hero = memory.NewHeroStore()
		st.contacts = memory.NewContactRepository()
		st.idempotency = memory.NewIdempotencyStore()
		st.outbox = memory.NewOutbox(publisher)
		logger.Warn("MONGO_URI not set, using in-memory persistence")
	}

	images, err := a.buildImageStore(ctx, cfg, logger)
	if err != nil {
		return st, err
	}
	st.images = images
	return st, nil
}

func (a *application) buildImageStore(_ context.Context, cfg config.Config, logger *slog.Logger) (domainmedia.Store, error) {
	switch cfg.ResolvedImageStore() {
	case config.ImageStoreGridFS:
		if a.mongo == nil {
			return nil, errors.New("gridfs image store requires mongo")
		}
		return mongostore.NewImageStore(a.mongo.DB, "images", "")
	case config.ImageStoreS3:
		return s3.NewImageStore(s3.Options{
			Endpoint:      cfg.S3Endpoint,
			UseSSL:        cfg.S3UseSSL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicEndpoint,
		}, logger)
	default:
		return memory.NewImageStore(""), nil
	}
}

func (a *application) startBackground(ctx context.Context, logger *slog.Logger) {
	go a.snapshot.Start()
	go func() {
		<-ctx.Done()
		a.snapshot.Stop()
	}()
	if a.worker != nil {
		go func() {
			if err := a.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
}

func (a *application) ready(ctx context.Context) error {
	if a.mongo == nil {
		return nil
	}
	return a.mongo.Ping(ctx)
}

func (a *application) close(logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongo.Close(ctx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
}

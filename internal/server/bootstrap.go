package server

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/teahouse/app/repositories"
	"github.com/shashiranjanraj/teahouse/app/services"
	"github.com/shashiranjanraj/teahouse/config"
	"github.com/shashiranjanraj/teahouse/pkg/cache"
	"github.com/shashiranjanraj/teahouse/pkg/database"
	"github.com/shashiranjanraj/teahouse/pkg/mail"
	"github.com/shashiranjanraj/teahouse/pkg/notification"
	"github.com/shashiranjanraj/teahouse/pkg/workerpool"
)

const closeTimeout = 5 * time.Second

// App holds the long-lived dependencies of a running process.
type App struct {
	Orders *services.OrderService
	Store  repositories.OrderStore

	channels []string
	pool     *workerpool.Pool
	mongo    *mongo.Client
	redis    *cache.Redis
	log      *slog.Logger
}

// StoreSettings selects and configures the order store.
type StoreSettings struct {
	MongoURL      string
	MongoDatabase string
	MongoTimeout  time.Duration
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
}

func storeSettingsFromConfig() StoreSettings {
	return StoreSettings{
		MongoURL:      config.MongoURL(),
		MongoDatabase: config.MongoDatabase(),
		MongoTimeout:  config.MongoTimeout(),
		RedisAddr:     config.RedisAddr(),
		RedisPassword: config.RedisPassword(),
		CacheTTL:      config.OrdersCacheTTL(),
	}
}

// Bootstrap wires the process from config. It never fails: an unreachable
// database or cache is logged and the process runs without it.
func Bootstrap(ctx context.Context, log *slog.Logger) *App {
	smtp := mail.DefaultSMTP()
	return bootstrap(ctx, log, storeSettingsFromConfig(), mail.NewMailer(smtp, mail.SMTPTransport{}))
}

func bootstrap(ctx context.Context, log *slog.Logger, settings StoreSettings, mailer *mail.Mailer) *App {
	app := &App{log: log}

	app.Store, app.mongo = selectStore(ctx, settings, log)
	app.Store, app.redis = withCache(ctx, app.Store, settings, log)

	app.pool = workerpool.New(config.NotifyWorkers(), func(rec any) {
		log.Error("notification: task panicked", "panic", rec)
	})
	dispatcher := notification.NewDispatcher(mailer, app.pool, log)

	channels := []string{notification.ChannelMail}
	if !mailer.Config().Configured() {
		log.Warn("mail: MAIL_USERNAME not set, order notifications go to the log")
		channels = []string{notification.ChannelLog}
	}
	app.channels = channels

	app.Orders = services.NewOrderService(app.Store, dispatcher, services.OrderOptions{
		Recipient:      config.NotifyRecipient(),
		CurrencySymbol: config.CurrencySymbol(),
		Channels:       channels,
	})
	return app
}

// selectStore picks the durable store when MONGO_URL names a remote server
// that answers a ping, and the memory store otherwise. The choice is final
// for the life of the process.
func selectStore(ctx context.Context, s StoreSettings, log *slog.Logger) (repositories.OrderStore, *mongo.Client) {
	switch {
	case s.MongoURL == "":
		log.Info("store: MONGO_URL not set, using memory store")
		return repositories.NewMemoryOrderStore(), nil
	case database.IsLoopback(s.MongoURL):
		log.Info("store: MONGO_URL is a local address, using memory store")
		return repositories.NewMemoryOrderStore(), nil
	}

	client, err := database.Connect(ctx, s.MongoURL, s.MongoTimeout)
	if err != nil {
		log.Error("store: mongo unreachable, falling back to memory store", "error", err)
		return repositories.NewMemoryOrderStore(), nil
	}

	store := repositories.NewMongoOrderStore(client.Database(s.MongoDatabase).Collection(repositories.OrdersCollection))

	idxCtx, cancel := context.WithTimeout(ctx, s.MongoTimeout)
	defer cancel()
	if err := store.EnsureIndexes(idxCtx); err != nil {
		log.Warn("store: could not create indexes", "error", err)
	}

	log.Info("store: connected to mongo", "database", s.MongoDatabase)
	return store, client
}

// withCache wraps store in the Redis listing cache when REDIS_ADDR is set
// and reachable.
func withCache(ctx context.Context, store repositories.OrderStore, s StoreSettings, log *slog.Logger) (repositories.OrderStore, *cache.Redis) {
	if s.RedisAddr == "" {
		return store, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.MongoTimeout)
	defer cancel()

	rdb, err := cache.Connect(pingCtx, s.RedisAddr, s.RedisPassword)
	if err != nil {
		log.Warn("cache: redis unreachable, listing cache disabled", "error", err)
		return store, nil
	}
	log.Info("cache: listing cache enabled", "addr", s.RedisAddr, "ttl", s.CacheTTL.String())
	return repositories.NewCachedOrderStore(store, rdb, s.CacheTTL, log), rdb
}

// Close drains pending notifications, then releases connections.
func (a *App) Close() {
	a.pool.Shutdown()

	if err := database.Disconnect(a.mongo, closeTimeout); err != nil {
		a.log.Warn("store: mongo disconnect", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("cache: redis close", "error", err)
		}
	}
}

package app

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/phenrril/tiendaropa/internal/adapters/httpserver"
	"github.com/phenrril/tiendaropa/internal/adapters/idempotency/redisstore"
	"github.com/phenrril/tiendaropa/internal/adapters/messaging/kafka"
	"github.com/phenrril/tiendaropa/internal/adapters/repo/postgres"
	"github.com/phenrril/tiendaropa/internal/adapters/storage/localfs"
	"github.com/phenrril/tiendaropa/internal/config"
	"github.com/phenrril/tiendaropa/internal/domain"
	"github.com/phenrril/tiendaropa/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	Config    config.Config
	ProductUC *usecase.ProductUC
	OrderUC   *usecase.OrderUC
	ReportUC  *usecase.ReportUC
	Storage   *localfs.Storage

	publisher *kafka.Publisher
	redis     *redis.Client
}

func NewApp(db *gorm.DB, cfg config.Config) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	orderRepo := postgres.NewOrderRepo(db)

	if err := os.MkdirAll(cfg.StorageDir, 0755); err != nil {
		return nil, err
	}
	storage := localfs.New(cfg.StorageDir)

	app := &App{DB: db, Config: cfg, Storage: storage}

	var events domain.EventPublisher = kafka.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		app.publisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		events = app.publisher
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("order events enabled")
	} else {
		log.Warn().Msg("KAFKA_BROKERS not set, order events disabled")
	}

	var keys domain.IdempotencyStore
	if cfg.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		keys = redisstore.New(app.redis, cfg.IdempotencyTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("idempotency keys enabled")
	}

	app.ProductUC = &usecase.ProductUC{Products: prodRepo, Storage: storage, MaxRetries: cfg.OrderMaxRetries}
	app.OrderUC = &usecase.OrderUC{
		Products:    prodRepo,
		Orders:      orderRepo,
		Events:      events,
		Idempotency: keys,
		MaxRetries:  cfg.OrderMaxRetries,
	}
	app.ReportUC = &usecase.ReportUC{Orders: orderRepo, Products: prodRepo, LowStockThreshold: cfg.LowStockThreshold}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ProductUC, a.OrderUC, a.ReportUC, httpserver.Options{
		UploadsDir:     a.Storage.Dir(),
		CORSOrigins:    a.Config.CORSOrigins,
		RateLimitRPS:   a.Config.RateLimitRPS,
		RateLimitBurst: a.Config.RateLimitBurst,
	})
}

// MigrateAndSeed crea las tablas y, fuera de producción, carga productos de
// ejemplo si el catálogo está vacío.
func (a *App) MigrateAndSeed() error {
	if err := postgres.AutoMigrate(a.DB); err != nil {
		return err
	}
	if a.Config.IsProduction() {
		return nil
	}
	var count int64
	if err := a.DB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return seedProducts(context.Background(), a.ProductUC)
}

func seedProducts(ctx context.Context, uc *usecase.ProductUC) error {
	prods := []usecase.ProductInput{
		{Name: "Floral Wrap Dress", Category: domain.CategoryDress, Price: decimal.RequireFromString("120.50"), Stock: domain.StockCounts{Small: 10, Medium: 5, Large: 2}},
		{Name: "Linen Button Top", Category: domain.CategoryTop, Price: decimal.RequireFromString("45.00"), Stock: domain.StockCounts{Small: 6, Medium: 8, Large: 4}},
		{Name: "Pleated Midi Skirt", Category: domain.CategorySkirts, Price: decimal.RequireFromString("68.90"), Stock: domain.StockCounts{Small: 3, Medium: 3, Large: 3}},
		{Name: "Wide Leg Trousers", Category: domain.CategoryBottoms, Price: decimal.RequireFromString("79.00"), Stock: domain.StockCounts{Medium: 7, Large: 5}},
		{Name: "Straw Bucket Hat", Category: domain.CategoryHats, Price: decimal.RequireFromString("25.00"), Stock: domain.StockCounts{Small: 2, Medium: 2, Large: 1}},
	}
	for _, p := range prods {
		if _, err := uc.Create(ctx, p, nil); err != nil {
			return err
		}
	}
	log.Info().Int("products", len(prods)).Msg("demo catalog seeded")
	return nil
}

// Close libera el productor de Kafka y el cliente de Redis.
func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}

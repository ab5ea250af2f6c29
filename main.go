package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Finix99/smartship/api"
	db "github.com/Finix99/smartship/db/sqlc"
	"github.com/Finix99/smartship/geocode"
	"github.com/Finix99/smartship/shipping"
	"github.com/Finix99/smartship/util"
	"github.com/Finix99/smartship/worker"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGINT,
}

func main() {
	config, err := util.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	if config.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals...)
	defer stop()

	poolConfig, err := pgxpool.ParseConfig(config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse db config")
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	connPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}

	if err := connPool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot ping database")
	}

	runDBMigration(config.MigrationURL, config.DBSource)

	store := db.NewStore(connPool)

	if config.RedisAddress == "" {
		log.Fatal().Msg("REDIS_ADDRESS is not configured")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("cannot connect to redis")
	}
	log.Info().Str("redis_address", config.RedisAddress).Msg("redis connection verified")

	redisOpt := asynq.RedisClientOpt{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
	}

	origin := shipping.Point{
		Latitude:  config.OriginLatitude,
		Longitude: config.OriginLongitude,
	}

	quoter := buildQuoter(config, origin, store, redisClient)

	waitGroup, ctx := errgroup.WithContext(ctx)

	taskDistributor := runTaskProcessor(ctx, waitGroup, redisOpt, store, origin)
	runGinServer(ctx, waitGroup, config, store, quoter, taskDistributor)

	err = waitGroup.Wait()
	if err != nil {
		log.Fatal().Err(err).Msg("error from wait group")
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create new migrate instance")
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal().Err(err).Msg("failed to run migrate up")
	}

	log.Info().Msg("db migrated successfully")
}

// buildQuoter wires the pricing pipeline: geocoder with redis caching,
// the rule engine, and the optional trained model. A missing or broken
// model artifact degrades to rule-based pricing instead of failing boot.
func buildQuoter(config util.Config, origin shipping.Point, store db.Store, redisClient *redis.Client) *shipping.Quoter {
	client := geocode.NewClient(config.GeocoderBaseURL, config.GeocoderTimeout)
	cache := geocode.NewRedisCache(redisClient, config.GeocodeCacheTTL)
	geocoder := geocode.NewCachedGeocoder(client, cache)

	rules := shipping.NewRuleEngine(shipping.PricingParams{
		HomeRegion:            config.HomeRegion,
		RatePerKmHome:         config.RatePerKmHome,
		BaseFee:               config.BaseFee,
		FlatRateOthers:        config.FlatRateOthers,
		MinOrderValue:         config.MinOrderValue,
		FreeShippingThreshold: config.FreeShippingThreshold,
		ZoneSurcharge:         config.ZoneSurcharge,
	})

	var predictor *shipping.Predictor
	if config.ModelPath != "" && config.EncoderPath != "" {
		loaded, err := shipping.LoadPredictor(config.ModelPath, config.EncoderPath)
		if err != nil {
			log.Warn().Err(err).Msg("model artifacts not loaded, serving rule-based quotes")
		} else {
			predictor = loaded
			log.Info().Str("version", predictor.Version()).Msg("pricing model loaded")
		}
	} else {
		log.Warn().Msg("MODEL_PATH/ENCODER_PATH not configured, serving rule-based quotes")
	}

	quoter, err := shipping.NewQuoter(origin, rules, predictor, geocoder, store)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create quoter")
	}
	return quoter
}

func runTaskProcessor(
	ctx context.Context,
	waitGroup *errgroup.Group,
	redisOpt asynq.RedisClientOpt,
	store db.Store,
	origin shipping.Point,
) worker.TaskDistributor {
	taskDistributor := worker.NewRedisTaskDistributor(redisOpt)

	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, store, origin)
	log.Info().Msg("start task processor")

	waitGroup.Go(func() error {
		return taskProcessor.Start()
	})

	waitGroup.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown task processor")
		taskProcessor.Shutdown()
		log.Info().Msg("task processor is stopped")
		return nil
	})

	return taskDistributor
}

func runGinServer(
	ctx context.Context,
	waitGroup *errgroup.Group,
	config util.Config,
	store db.Store,
	quoter *shipping.Quoter,
	taskDistributor worker.TaskDistributor,
) {
	server, err := api.NewServer(config, store, quoter, taskDistributor)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create server")
	}

	httpServer := &http.Server{
		Addr:    config.HTTPServerAddress,
		Handler: server.GetRouter(),
		// Avoid slowloris and stuck connections under pressure.
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	waitGroup.Go(func() error {
		log.Info().Msgf("start HTTP server at %s", config.HTTPServerAddress)
		err = httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server failed to serve")
			return err
		}
		return nil
	})

	waitGroup.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server forced to shutdown")
			return err
		}

		log.Info().Msg("HTTP server is stopped")
		return nil
	})
}

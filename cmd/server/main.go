package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"wastewise-backend/internal/config"
	"wastewise-backend/internal/database"
	"wastewise-backend/internal/handlers"
	"wastewise-backend/internal/logger"
	"wastewise-backend/internal/metrics"
	"wastewise-backend/internal/middleware"
	"wastewise-backend/internal/registry"
	"wastewise-backend/internal/sensors"
	"wastewise-backend/internal/services"
	"wastewise-backend/internal/websocket"
)

var log = logger.New("main")

func main() {
	if err := run(); err != nil {
		log.Errorf("❌ FATAL ERROR: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Configure(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, Pretty: cfg.IsDev()})

	log.Infof("═══════════════════════════════════════════════════════════════════")
	log.Infof("🚀 WASTEWISE DISPATCH SERVER STARTING (env=%s)", cfg.Server.Env)
	log.Infof("═══════════════════════════════════════════════════════════════════")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, err := database.LoadSeed(cfg.Data.SeedFile)
	if err != nil {
		return err
	}
	reg := registry.New(seed, registry.WithLogger(logger.New("registry")))
	log.Infof("✅ Registry loaded: %d bins, %d drivers, %d stations",
		len(seed.Bins), len(seed.Drivers), len(seed.Stations))

	var history services.WasteHistory = services.NewCSVHistory(cfg.Data.HistoryFile)
	var tripEvents handlers.TripEventSource

	// The database is optional: it adds the trip journal and serves history.
	if cfg.Database.URL != "" {
		db, err := openDatabase(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		journal := database.NewJournal(db, 256)
		reg.Subscribe(journal)
		go journal.Run(ctx)
		history = database.NewHistory(db)
		tripEvents = journal
		log.Infof("✅ Trip journal and waste history backed by Postgres")
	} else {
		log.Warnf("⚠️  DATABASE_URL not set, trip journal disabled and history read from %s", cfg.Data.HistoryFile)
	}

	if fcm := initFCM(cfg.Firebase); fcm != nil {
		reg.Subscribe(fcm)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	reg.Subscribe(wsHub)
	log.Infof("✅ WebSocket hub started")

	sink, err := metrics.NewPromSink(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	sink.SetAvailableDrivers(reg.AvailableDrivers())
	sink.ObserveBins(reg.Bins())
	reg.Subscribe(sink)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RequestsPerHour > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerHour, cfg.RateLimit.Burst)
		go cleanupLoop(ctx, limiter)
	}

	if cfg.Simulator.Interval > 0 {
		sim := registry.NewSimulator(reg, cfg.Simulator.Interval, cfg.Simulator.Seed, logger.New("simulator"))
		go sim.Run(ctx)
		log.Infof("✅ Fill simulator running every %s", cfg.Simulator.Interval)
	}

	if cfg.MQTT.Broker != "" {
		sub, err := sensors.Connect(sensors.Options{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			QoS:      cfg.MQTT.QoS,
		}, reg, logger.New("sensors"))
		if err != nil {
			log.Warnf("⚠️  MQTT broker unreachable: %v (sensor ingestion over MQTT disabled)", err)
		} else {
			defer sub.Close()
		}
	}

	auth, err := handlers.NewAuthenticator(cfg.Auth.OperatorEmail, cfg.Auth.OperatorName,
		cfg.Auth.OperatorPassword, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("operator account: %w", err)
	}
	if cfg.Auth.OperatorPassword == "" {
		log.Warnf("⚠️  No operator password configured, /admin sign-in disabled")
	}

	router := handlers.NewRouter(handlers.Deps{
		Registry:  reg,
		History:   history,
		Auth:      auth,
		JWTSecret: cfg.Auth.JWTSecret,
		Recorder:  sink,
		Journal:   tripEvents,
		Limiter:   limiter,
		WebSocket: websocket.HandleWebSocket(wsHub),
		Metrics:   sink.Handler(),
		Logger:    logger.New("http"),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🌐 Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Infof("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Infof("✅ Server stopped")
	return nil
}

func openDatabase(url string) (*sqlx.DB, error) {
	log.Infof("🔌 Connecting to database...")
	db, err := database.Connect(url)
	if err != nil {
		return nil, err
	}
	log.Infof("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Infof("✅ Database ready")
	return db, nil
}

// initFCM supports base64 credentials for cloud deployments and falls back
// to a credentials file. Push notifications are optional.
func initFCM(cfg config.FirebaseConfig) *services.FCMService {
	if cfg.CredentialsBase64 != "" {
		fcm, err := services.NewFCMServiceFromBase64(cfg.CredentialsBase64)
		if err != nil {
			log.Warnf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			return nil
		}
		log.Infof("✅ Firebase Cloud Messaging initialized from base64 credentials")
		return fcm
	}
	if cfg.CredentialsFile == "" {
		return nil
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		log.Warnf("⚠️  FCM credentials %s not found (push notifications disabled)", cfg.CredentialsFile)
		return nil
	}
	fcm, err := services.NewFCMService(cfg.CredentialsFile)
	if err != nil {
		log.Warnf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
		return nil
	}
	log.Infof("✅ Firebase Cloud Messaging initialized from file")
	return fcm
}

func cleanupLoop(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

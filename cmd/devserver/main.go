package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/semanticallynull/campusride/internal/devserver"
	"github.com/semanticallynull/campusride/internal/o11y"
)

var cli = struct {
	DatabaseURL string        `name:"database-url" env:"DATABASE_URL" help:"Keep the scooter inventory in Postgres instead of memory."`
	Port        int           `name:"port" env:"PORT" default:"8080"`
	JWTSecret   string        `name:"jwt-secret" env:"JWT_SECRET" default:"campusride-dev-secret"`
	TokenTTL    time.Duration `name:"token-ttl" env:"TOKEN_TTL" default:"24h"`

	MetricsUsername string `name:"metrics-username" env:"METRICS_USERNAME"`
	MetricsPassword string `name:"metrics-password" env:"METRICS_PASSWORD"`

	OTLPEndpoint string `name:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Debug        bool   `name:"debug" env:"DEBUG"`
}{}

func main() {
	if err := run(); err != nil {
		log.Fatalf("unexpected error: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	kong.Parse(&cli, kong.Description("Development stand-in for the campus scooter API."))

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	obs, cleanup, err := o11y.Setup(ctx, o11y.Options{
		ServiceName:  "campusride-devserver",
		Level:        level,
		OTLPEndpoint: cli.OTLPEndpoint,
	})
	defer cleanup()
	if err != nil {
		return err
	}

	inventory, closeInventory, err := openInventory(ctx, obs.Logger)
	if err != nil {
		return err
	}
	defer closeInventory()

	s, err := devserver.New(devserver.Config{
		Secret:          []byte(cli.JWTSecret),
		TokenTTL:        cli.TokenTTL,
		MetricsUsername: cli.MetricsUsername,
		MetricsPassword: cli.MetricsPassword,
	}, inventory, obs.Logger, obs.Registry)
	if err != nil {
		return err
	}

	serv := http.Server{
		Addr:              fmt.Sprintf(":%d", cli.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		obs.Logger.Info("listening", "addr", serv.Addr)
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return serv.Shutdown(ctx)
}

func openInventory(ctx context.Context, logger *slog.Logger) (devserver.Inventory, func(), error) {
	if cli.DatabaseURL == "" {
		logger.Info("using in-memory inventory")
		return devserver.NewMemoryInventory(devserver.Fleet()), func() {}, nil
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", cli.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	inv := devserver.NewSQLInventory(db)
	if err := inv.EnsureSchema(ctx, devserver.Fleet()); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("using postgres inventory")
	return inv, func() { db.Close() }, nil
}

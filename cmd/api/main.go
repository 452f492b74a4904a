package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/kasir-backend/internal/config"
	"github.com/georgemunganga/kasir-backend/internal/modules/auth"
	"github.com/georgemunganga/kasir-backend/internal/modules/catalog"
	"github.com/georgemunganga/kasir-backend/internal/modules/events"
	"github.com/georgemunganga/kasir-backend/internal/modules/history"
	"github.com/georgemunganga/kasir-backend/internal/modules/order"
	"github.com/georgemunganga/kasir-backend/internal/modules/printer"
	"github.com/georgemunganga/kasir-backend/internal/modules/printer/ble"
	"github.com/georgemunganga/kasir-backend/internal/modules/receipt"
	"github.com/georgemunganga/kasir-backend/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage & Events ────────────────────────────────────
	backend, closeBackend, err := openBackend(ctx, cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBackend()

	publisher, err := openPublisher(cfg.Events)
	if err != nil {
		log.Fatal(err)
	}
	defer publisher.Close()

	store := history.Load(ctx, backend, history.WithPublisher(publisher))
	fmt.Printf("Loaded %d orders from %s storage\n", store.Len(), cfg.Storage.Driver)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// ── Cashiers ────────────────────────────────────────────
	cashiers, err := user.ParseRoster(cfg.Auth.Cashiers)
	if err != nil {
		log.Fatal(err)
	}
	userService := user.NewService(cashiers)
	authService := auth.NewService(userService, cfg.Auth.Secret, cfg.Auth.TTL)
	auth.NewHandler(authService).RegisterRoutes(router)
	if userService.Len() == 0 {
		log.Println("auth disabled: no cashiers configured")
	}

	router.Group(func(r chi.Router) {
		if userService.Len() > 0 {
			r.Use(auth.Middleware(authService))
		}

		// ── Menu & Cart ─────────────────────────────────────
		menu := catalog.MustDefault()
		catalog.NewHandler(menu).RegisterRoutes(r)

		orderService := order.NewService(menu, store, order.NewBuilder())
		order.NewHandler(orderService).RegisterRoutes(r)

		// ── Order History ───────────────────────────────────
		history.NewHandler(store, cfg.Location).RegisterRoutes(r)

		// ── Receipts & Printer ──────────────────────────────
		printerService, err := printer.NewService(
			openChannel(cfg.Printer),
			store,
			receipt.NewFormatter(cfg.Receipt),
			printer.Options{
				Filter: printer.DiscoveryFilter{
					ServiceUUID: printer.ServiceUUID,
					NamePrefix:  cfg.Printer.NamePrefix,
					Address:     cfg.Printer.Address,
				},
				Encoding: cfg.Printer.Encoding,
				Timeout:  cfg.Printer.Timeout,
			},
		)
		if err != nil {
			log.Fatal(err)
		}
		printer.NewHandler(printerService).RegisterRoutes(r)
	})

	// ── Start Server ─────────────────────────────────────────
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.HTTP.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           cors(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	fmt.Printf("Kasir API server starting on %s\n", cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openBackend(ctx context.Context, cfg config.Storage) (history.Backend, func(), error) {
	switch cfg.Driver {
	case "memory":
		return history.NewMemoryBackend(nil), func() {}, nil

	case "file":
		return history.NewFileBackend(cfg.Path), func() {}, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		b := history.NewPostgresBackend(db, history.Slot)
		if err := b.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		fmt.Println("Successfully connected to the database!")
		return b, func() { db.Close() }, nil

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		fmt.Println("Successfully connected to the database!")
		b := history.NewMongoBackend(client.Database(cfg.Database), history.Slot)
		return b, func() { client.Disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func openPublisher(cfg config.Events) (events.Publisher, error) {
	switch cfg.Driver {
	case "nats":
		p, err := events.NewNATSPublisher(cfg.URL)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "amqp":
		p, err := events.NewAMQPPublisher(cfg.URL, cfg.Exchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return events.Noop{}, nil
}

func openChannel(cfg config.Printer) printer.Channel {
	if cfg.Driver == "none" {
		return printer.Discard{}
	}
	return ble.New(nil)
}

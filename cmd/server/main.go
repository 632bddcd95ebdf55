package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"stockroom/internal/adapter/handler"
	"stockroom/internal/adapter/storage"
	"stockroom/internal/core/domain"
	"stockroom/internal/core/service"
	"stockroom/internal/port"
)

const (
	defaultHTTPAddr  = ":8080"
	defaultRedisAddr = "localhost:6379"
	workerCount      = 4
	queueSize        = 1024
)

// @title Stockroom API
// @version 1.0
// @description Inventory tracking over Redis
// @BasePath /
func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatal("init tracing", zap.Error(err))
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	var (
		directory port.Directory
		records   port.RecordStore
	)
	if getenv("STORE", "redis") == "memory" {
		mem := storage.NewMemoryAdapter()
		directory, records = mem, mem
		log.Info("using in-memory store")
	} else {
		redisDB, _ := strconv.Atoi(getenv("REDIS_DB", "0"))
		rdb := redis.NewClient(&redis.Options{
			Addr: getenv("REDIS_ADDR", defaultRedisAddr),
			DB:   redisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("connect redis", zap.Error(err))
		}
		defer rdb.Close()
		log.Info("connected to redis", zap.String("addr", rdb.Options().Addr))

		adapter := storage.NewRedisAdapter(rdb)
		directory, records = adapter, adapter
	}

	// Audit sink: MySQL when configured, the application log otherwise.
	var audit port.AuditRepository = storage.NewLogAudit(log)
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			log.Fatal("connect mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("ping mysql", zap.Error(err))
		}
		defer db.Close()

		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			log.Fatal("ensure schema", zap.Error(err))
		}
		audit = mysqlAdapter
		log.Info("connected to mysql")
	}

	inventory := service.NewInventoryService(directory, records, queueSize)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			auditLoop(id, inventory.Events(), audit, log)
		}(i)
	}
	log.Info("started audit workers", zap.Int("count", workerCount))

	r := mux.NewRouter()
	r.Use(handler.RequestLogger(log))
	h := handler.NewHTTPHandler(inventory, log, tp.Tracer("stockroom"))
	h.Register(r)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:    getenv("HTTP_ADDR", defaultHTTPAddr),
		Handler: r,
	}
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	log.Info("http server stopped")

	// Close the event queue and wait for the workers to drain it.
	inventory.Close()
	wg.Wait()
	log.Info("audit workers stopped")
}

func auditLoop(id int, events <-chan domain.Event, audit port.AuditRepository, log *zap.Logger) {
	for event := range events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := audit.RecordEvent(ctx, event); err != nil {
			log.Error("record event",
				zap.Int("worker", id),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

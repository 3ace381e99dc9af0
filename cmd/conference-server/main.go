package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/lsfernandes92/desafio-ninja/internal/config"
	"github.com/lsfernandes92/desafio-ninja/internal/service/appointments"
	"github.com/lsfernandes92/desafio-ninja/internal/service/rooms"
	"github.com/lsfernandes92/desafio-ninja/internal/service/users"
	"github.com/lsfernandes92/desafio-ninja/internal/service/validation"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
	"github.com/lsfernandes92/desafio-ninja/internal/store/cache"
	"github.com/lsfernandes92/desafio-ninja/internal/store/postgres"
	grpcTransport "github.com/lsfernandes92/desafio-ninja/internal/transport/grpc"
	httpTransport "github.com/lsfernandes92/desafio-ninja/internal/transport/http"
)

const serviceName = "conference-server"

func main() {
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn(".env load failed", slog.Any("err", err))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = newLogger(parseLogLevel(cfg.LogLevel))
	slog.SetDefault(log)

	log.Info(
		"starting",
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("log_level", cfg.LogLevel),
		slog.String("booking_time_zone", cfg.BookingLocation.String()),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()

	log.Info("connecting to database", postgres.LogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(startCtx, cfg.DatabaseURL, postgres.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		SlowQuery:       cfg.DBSlowQuery,
		Log:             log,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, postgres.LogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	var roomRepo store.RoomRepository = postgres.NewRoomRepo(db)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(startCtx).Err(); err != nil {
			log.Warn("redis unavailable; room cache disabled", slog.Any("err", err), slog.String("redis_addr", cfg.RedisAddr))
			_ = rdb.Close()
		} else {
			defer func() { _ = rdb.Close() }()
			roomRepo = cache.NewRooms(roomRepo, rdb, cfg.RedisRoomTTL, log)
			log.Info("room cache enabled", slog.String("redis_addr", cfg.RedisAddr), slog.Duration("ttl", cfg.RedisRoomTTL))
		}
	}

	validator := validation.NewValidator(validation.Policy{
		Location:  cfg.BookingLocation,
		OpenHour:  cfg.BookingOpenHour,
		CloseHour: cfg.BookingCloseHour,
	})
	apptSvc := appointments.NewService(postgres.NewAppointmentRepo(db), validator)
	userSvc := users.NewService(postgres.NewUserRepo(db))
	roomSvc := rooms.NewService(roomRepo)

	gin.SetMode(gin.ReleaseMode)
	router := httpTransport.NewRouter(httpTransport.RouterConfig{
		CORSOrigins:    cfg.HTTPCORSOrigins,
		RateLimitRPS:   cfg.HTTPRateLimitRPS,
		RateLimitBurst: cfg.HTTPRateLimitBurst,
		Location:       cfg.BookingLocation,
		Health:         db.PingContext,
	}, httpTransport.Services{
		Users:        userSvc,
		Rooms:        roomSvc,
		Appointments: apptSvc,
	}, log)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(defaultRequestTimeoutInterceptor(cfg.GRPCRequestTimeout)),
	)
	grpcTransport.RegisterAppointmentsServiceServer(grpcServer, grpcTransport.NewAppointmentsServer(apptSvc, log))
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(grpcTransport.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("http server started", slog.String("http_addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")
		healthSrv.Shutdown()
		shutdown(log, grpcServer, httpServer, cfg.ShutdownTimeout)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("service", serviceName),
	)
}

func defaultRequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

// shutdown drains both servers within timeout, then forces the gRPC
// server down.
func shutdown(log *slog.Logger, gs *grpc.Server, hs *http.Server, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := hs.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed", slog.Any("err", err))
	} else {
		log.Info("http server stopped")
	}

	done := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		gs.Stop()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

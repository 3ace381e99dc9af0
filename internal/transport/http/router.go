package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/service/appointments"
	"github.com/lsfernandes92/desafio-ninja/internal/service/users"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type UserService interface {
	Create(ctx context.Context, in users.CreateInput) (domain.User, error)
	Get(ctx context.Context, userID uuid.UUID) (domain.User, error)
	List(ctx context.Context, page store.Page) ([]domain.User, error)
	Update(ctx context.Context, in users.UpdateInput) (domain.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type RoomService interface {
	Create(ctx context.Context, name string) (domain.Room, error)
	Get(ctx context.Context, roomID uuid.UUID) (domain.Room, error)
	List(ctx context.Context, page store.Page) ([]domain.Room, error)
	Update(ctx context.Context, roomID uuid.UUID, name *string) (domain.Room, error)
	Delete(ctx context.Context, roomID uuid.UUID) error
}

type AppointmentService interface {
	Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, in appointments.UpdateInput) (domain.Appointment, error)
	Delete(ctx context.Context, userID, appointmentID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID, page store.Page) ([]domain.Appointment, error)
	ListForRoom(ctx context.Context, roomID uuid.UUID, page store.Page) ([]domain.Appointment, error)
}

type Services struct {
	Users        UserService
	Rooms        RoomService
	Appointments AppointmentService
}

type RouterConfig struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	// Location is the zone appointment times are parsed and rendered in.
	Location *time.Location
	// Health reports dependency health for GET /health. Optional.
	Health func(ctx context.Context) error
}

type handlers struct {
	svc Services
	loc *time.Location
	log *slog.Logger
}

func NewRouter(cfg RouterConfig, svc Services, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	log = log.With(slog.String("component", "http"))

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if cfg.RateLimitRPS > 0 {
		r.Use(newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).middleware(log))
	}

	r.GET("/health", healthHandler(cfg.Health, log))

	h := &handlers{svc: svc, loc: cfg.Location, log: log}

	v1 := r.Group("/v1", requireJSONAPI())
	{
		v1.GET("/users", h.listUsers)
		v1.POST("/users", h.createUser)
		v1.GET("/users/:id", h.showUser)
		v1.PATCH("/users/:id", h.updateUser)
		v1.PUT("/users/:id", h.updateUser)
		v1.DELETE("/users/:id", h.deleteUser)

		v1.GET("/users/:id/relationships/appointments", h.listUserAppointments)
		v1.POST("/users/:id/relationships/appointment", h.createAppointment)
		v1.PATCH("/users/:id/relationships/appointment", h.updateAppointment)
		v1.PUT("/users/:id/relationships/appointment", h.updateAppointment)
		v1.DELETE("/users/:id/relationships/appointment", h.deleteAppointment)

		v1.GET("/rooms", h.listRooms)
		v1.POST("/rooms", h.createRoom)
		v1.GET("/rooms/:id", h.showRoom)
		v1.PATCH("/rooms/:id", h.updateRoom)
		v1.PUT("/rooms/:id", h.updateRoom)
		v1.DELETE("/rooms/:id", h.deleteRoom)

		v1.GET("/rooms/:id/relationships/appointments", h.listRoomAppointments)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type", "Idempotency-Key"},
		ExposeHeaders: []string{"Content-Length", "Location"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func healthHandler(check func(ctx context.Context) error, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				log.Warn("health check failed", slog.Any("err", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

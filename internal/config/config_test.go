package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.BookingLocation.String() != "America/Sao_Paulo" {
		t.Fatalf("location = %s, want America/Sao_Paulo", cfg.BookingLocation)
	}
	if cfg.BookingOpenHour != 9 || cfg.BookingCloseHour != 17 {
		t.Fatalf("hours = [%d, %d], want [9, 17]", cfg.BookingOpenHour, cfg.BookingCloseHour)
	}
	if cfg.GRPCAddr() != "0.0.0.0:50051" {
		t.Fatalf("grpc addr = %q", cfg.GRPCAddr())
	}
	if cfg.ShutdownTimeout != 10*time.Second || cfg.RedisRoomTTL != 5*time.Minute {
		t.Fatalf("durations = %v / %v", cfg.ShutdownTimeout, cfg.RedisRoomTTL)
	}
	if len(cfg.HTTPCORSOrigins) != 1 || cfg.HTTPCORSOrigins[0] != "*" {
		t.Fatalf("cors origins = %v", cfg.HTTPCORSOrigins)
	}
	if cfg.DBSlowQuery != 200*time.Millisecond {
		t.Fatalf("slow query = %v, want 200ms", cfg.DBSlowQuery)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFERENCE_GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("CONFERENCE_BOOKING_TIME_ZONE", "UTC")
	t.Setenv("CONFERENCE_BOOKING_OPEN_HOUR", "8")
	t.Setenv("CONFERENCE_HTTP_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CONFERENCE_REDIS_ROOM_TTL", "90s")
	t.Setenv("CONFERENCE_DATABASE_SLOW_QUERY", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.GRPCHost != "127.0.0.1" || cfg.GRPCPort != 6000 {
		t.Fatalf("grpc = %s:%d, want 127.0.0.1:6000", cfg.GRPCHost, cfg.GRPCPort)
	}
	if cfg.BookingLocation != time.UTC {
		t.Fatalf("location = %s, want UTC", cfg.BookingLocation)
	}
	if cfg.BookingOpenHour != 8 {
		t.Fatalf("open hour = %d, want 8", cfg.BookingOpenHour)
	}
	if len(cfg.HTTPCORSOrigins) != 2 || cfg.HTTPCORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins = %v", cfg.HTTPCORSOrigins)
	}
	if cfg.RedisRoomTTL != 90*time.Second {
		t.Fatalf("room ttl = %v, want 90s", cfg.RedisRoomTTL)
	}
	if cfg.DBSlowQuery != 0 {
		t.Fatalf("slow query = %v, want disabled", cfg.DBSlowQuery)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown zone", key: "CONFERENCE_BOOKING_TIME_ZONE", val: "Mars/Olympus_Mons"},
		{name: "inverted hours", key: "CONFERENCE_BOOKING_OPEN_HOUR", val: "18"},
		{name: "bad duration", key: "CONFERENCE_SHUTDOWN_TIMEOUT", val: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

const (
	DefaultRoomTTL = 5 * time.Minute
	roomKeyPrefix  = "conference:room:"
)

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Rooms is a read-through cache in front of a RoomRepository. Only single
// room reads are cached; writes go to the repository and evict the key.
// Redis failures are logged and fall back to the repository.
type Rooms struct {
	next   store.RoomRepository
	client Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewRooms(next store.RoomRepository, client Client, ttl time.Duration, log *slog.Logger) *Rooms {
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Rooms{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With(slog.String("component", "room_cache")),
	}
}

func roomKey(roomID uuid.UUID) string {
	return roomKeyPrefix + roomID.String()
}

func (c *Rooms) GetRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
	key := roomKey(roomID)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var room domain.Room
		if err := json.Unmarshal(raw, &room); err == nil {
			return room, nil
		}
		c.log.Warn("room cache entry corrupt", slog.String("room_id", roomID.String()))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("room cache read failed", slog.String("room_id", roomID.String()), slog.Any("err", err))
	}

	room, err := c.next.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}

	data, err := json.Marshal(room)
	if err != nil {
		return room, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("room cache write failed", slog.String("room_id", roomID.String()), slog.Any("err", err))
	}
	return room, nil
}

func (c *Rooms) CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	return c.next.CreateRoom(ctx, room)
}

func (c *Rooms) ListRooms(ctx context.Context, page store.Page) ([]domain.Room, error) {
	return c.next.ListRooms(ctx, page)
}

func (c *Rooms) UpdateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	updated, err := c.next.UpdateRoom(ctx, room)
	if err != nil {
		return domain.Room{}, err
	}
	c.evict(ctx, room.ID)
	return updated, nil
}

func (c *Rooms) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	if err := c.next.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	c.evict(ctx, roomID)
	return nil
}

func (c *Rooms) evict(ctx context.Context, roomID uuid.UUID) {
	if err := c.client.Del(ctx, roomKey(roomID)).Err(); err != nil {
		c.log.Warn("room cache evict failed", slog.String("room_id", roomID.String()), slog.Any("err", err))
	}
}

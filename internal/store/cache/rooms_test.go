package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type fakeClient struct {
	data    map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.readErr != nil {
		return redis.NewStringResult("", f.readErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		panic("unexpected value type")
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type fakeRooms struct {
	gets     int
	getFn    func(ctx context.Context, roomID uuid.UUID) (domain.Room, error)
	updateFn func(ctx context.Context, room domain.Room) (domain.Room, error)
	deleteFn func(ctx context.Context, roomID uuid.UUID) error
}

func (f *fakeRooms) CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	panic("CreateRoom not configured")
}

func (f *fakeRooms) GetRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
	if f.getFn == nil {
		panic("GetRoom not configured")
	}
	f.gets++
	return f.getFn(ctx, roomID)
}

func (f *fakeRooms) ListRooms(ctx context.Context, page store.Page) ([]domain.Room, error) {
	panic("ListRooms not configured")
}

func (f *fakeRooms) UpdateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	if f.updateFn == nil {
		panic("UpdateRoom not configured")
	}
	return f.updateFn(ctx, room)
}

func (f *fakeRooms) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	if f.deleteFn == nil {
		panic("DeleteRoom not configured")
	}
	return f.deleteFn(ctx, roomID)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRoomsGetRoom_ReadsThrough(t *testing.T) {
	room := domain.Room{ID: uuid.New(), Name: "Sala 1"}
	next := &fakeRooms{getFn: func(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
		return room, nil
	}}
	client := newFakeClient()
	c := NewRooms(next, client, time.Minute, discard)

	for i := 0; i < 3; i++ {
		got, err := c.GetRoom(context.Background(), room.ID)
		if err != nil {
			t.Fatalf("GetRoom error: %v", err)
		}
		if got.ID != room.ID || got.Name != room.Name {
			t.Fatalf("room = %+v, want %+v", got, room)
		}
	}
	if next.gets != 1 {
		t.Fatalf("repository reads = %d, want 1", next.gets)
	}
	if client.ttls[roomKey(room.ID)] != time.Minute {
		t.Fatalf("ttl = %v, want %v", client.ttls[roomKey(room.ID)], time.Minute)
	}
}

func TestRoomsGetRoom_NotFoundIsNotCached(t *testing.T) {
	next := &fakeRooms{getFn: func(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
		return domain.Room{}, store.ErrNotFound
	}}
	client := newFakeClient()
	c := NewRooms(next, client, 0, discard)

	if _, err := c.GetRoom(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, store.ErrNotFound)
	}
	if len(client.data) != 0 {
		t.Fatalf("cache entries = %d, want 0", len(client.data))
	}
}

func TestRoomsGetRoom_FallsBackWhenRedisFails(t *testing.T) {
	room := domain.Room{ID: uuid.New(), Name: "Sala 1"}
	next := &fakeRooms{getFn: func(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
		return room, nil
	}}
	client := newFakeClient()
	client.readErr = errors.New("connection refused")
	c := NewRooms(next, client, time.Minute, discard)

	got, err := c.GetRoom(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("GetRoom error: %v", err)
	}
	if got.ID != room.ID {
		t.Fatalf("room = %+v, want %+v", got, room)
	}
}

func TestRoomsGetRoom_IgnoresCorruptEntry(t *testing.T) {
	room := domain.Room{ID: uuid.New(), Name: "Sala 1"}
	next := &fakeRooms{getFn: func(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
		return room, nil
	}}
	client := newFakeClient()
	client.data[roomKey(room.ID)] = "{not json"
	c := NewRooms(next, client, time.Minute, discard)

	got, err := c.GetRoom(context.Background(), room.ID)
	if err != nil || got.Name != room.Name {
		t.Fatalf("GetRoom = (%+v, %v), want %+v", got, err, room)
	}
	if next.gets != 1 {
		t.Fatalf("repository reads = %d, want 1", next.gets)
	}
}

func TestRoomsWrites_Evict(t *testing.T) {
	room := domain.Room{ID: uuid.New(), Name: "Sala 1"}
	next := &fakeRooms{
		getFn: func(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
			return room, nil
		},
		updateFn: func(ctx context.Context, r domain.Room) (domain.Room, error) {
			room = r
			return r, nil
		},
		deleteFn: func(ctx context.Context, roomID uuid.UUID) error {
			return nil
		},
	}
	client := newFakeClient()
	c := NewRooms(next, client, time.Minute, discard)
	ctx := context.Background()

	if _, err := c.GetRoom(ctx, room.ID); err != nil {
		t.Fatalf("GetRoom error: %v", err)
	}
	if _, err := c.UpdateRoom(ctx, domain.Room{ID: room.ID, Name: "Sala 2"}); err != nil {
		t.Fatalf("UpdateRoom error: %v", err)
	}
	got, err := c.GetRoom(ctx, room.ID)
	if err != nil || got.Name != "Sala 2" {
		t.Fatalf("GetRoom after update = (%q, %v), want Sala 2", got.Name, err)
	}

	if err := c.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("DeleteRoom error: %v", err)
	}
	if _, ok := client.data[roomKey(room.ID)]; ok {
		t.Fatalf("entry still cached after delete")
	}
}

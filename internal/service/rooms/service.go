package rooms

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/service/validation"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type Service struct {
	repo store.RoomRepository
}

func NewService(repo store.RoomRepository) *Service {
	return &Service{repo: repo}
}

type roomFields struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (s *Service) Create(ctx context.Context, name string) (domain.Room, error) {
	name = strings.TrimSpace(name)
	if err := validation.CheckFields(roomFields{Name: name}).Err(); err != nil {
		return domain.Room{}, err
	}
	return s.repo.CreateRoom(ctx, domain.Room{Name: name})
}

func (s *Service) Get(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
	if roomID == uuid.Nil {
		return domain.Room{}, store.ErrNotFound
	}
	return s.repo.GetRoom(ctx, roomID)
}

func (s *Service) List(ctx context.Context, page store.Page) ([]domain.Room, error) {
	return s.repo.ListRooms(ctx, page.Normalize(store.DefaultDirectoryPageSize))
}

// Update renames the room. A nil name leaves it unchanged.
func (s *Service) Update(ctx context.Context, roomID uuid.UUID, name *string) (domain.Room, error) {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if name == nil {
		return room, nil
	}

	room.Name = strings.TrimSpace(*name)
	if err := validation.CheckFields(roomFields{Name: room.Name}).Err(); err != nil {
		return domain.Room{}, err
	}
	return s.repo.UpdateRoom(ctx, room)
}

// Delete removes the room and, through the schema, its appointments.
func (s *Service) Delete(ctx context.Context, roomID uuid.UUID) error {
	if roomID == uuid.Nil {
		return store.ErrNotFound
	}
	return s.repo.DeleteRoom(ctx, roomID)
}

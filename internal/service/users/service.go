package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/service/validation"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type Service struct {
	repo store.UserRepository
}

func NewService(repo store.UserRepository) *Service {
	return &Service{repo: repo}
}

type userFields struct {
	Name  string `json:"name" validate:"required,max=50"`
	Email string `json:"email" validate:"required,max=50,email"`
}

type CreateInput struct {
	Name  string
	Email string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.User, error) {
	user := domain.User{
		Name:  strings.TrimSpace(in.Name),
		Email: domain.NormalizeEmail(in.Email),
	}
	if err := s.validate(ctx, user); err != nil {
		return domain.User{}, err
	}

	created, err := s.repo.CreateUser(ctx, user)
	if errors.Is(err, store.ErrEmailTaken) {
		return domain.User{}, emailTaken()
	}
	return created, err
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	if userID == uuid.Nil {
		return domain.User{}, store.ErrNotFound
	}
	return s.repo.GetUser(ctx, userID)
}

func (s *Service) List(ctx context.Context, page store.Page) ([]domain.User, error) {
	return s.repo.ListUsers(ctx, page.Normalize(store.DefaultDirectoryPageSize))
}

// UpdateInput patches a user. Nil fields keep the stored value.
type UpdateInput struct {
	ID    uuid.UUID
	Name  *string
	Email *string
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (domain.User, error) {
	user, err := s.Get(ctx, in.ID)
	if err != nil {
		return domain.User{}, err
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = domain.NormalizeEmail(*in.Email)
	}
	if err := s.validate(ctx, user); err != nil {
		return domain.User{}, err
	}

	updated, err := s.repo.UpdateUser(ctx, user)
	if errors.Is(err, store.ErrEmailTaken) {
		return domain.User{}, emailTaken()
	}
	return updated, err
}

// Delete removes the user and, through the schema, their appointments.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return store.ErrNotFound
	}
	return s.repo.DeleteUser(ctx, userID)
}

// validate returns domain.Violations for user, or a lookup error. A blank
// email is reported both as blank and as invalid.
func (s *Service) validate(ctx context.Context, user domain.User) error {
	out := validation.CheckFields(userFields{Name: user.Name, Email: user.Email})
	if user.Email == "" {
		out.Add(domain.FieldEmail, domain.MsgInvalid)
		return out.Err()
	}

	other, err := s.repo.FindUserByEmail(ctx, user.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return err
	case other.ID != user.ID:
		out.Add(domain.FieldEmail, domain.MsgTaken)
	}
	return out.Err()
}

func emailTaken() domain.Violations {
	return domain.Violations{{Field: domain.FieldEmail, Message: domain.MsgTaken}}
}

package validation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type fakeLookup struct {
	findRoomFn func(ctx context.Context, roomID uuid.UUID) (domain.Room, error)
	findUserFn func(ctx context.Context, userID uuid.UUID) (domain.User, error)
	listDayFn  func(ctx context.Context, roomID uuid.UUID, day time.Time) ([]domain.Appointment, error)
}

func (f *fakeLookup) FindRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
	if f.findRoomFn == nil {
		panic("FindRoom not configured")
	}
	return f.findRoomFn(ctx, roomID)
}

func (f *fakeLookup) FindUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	if f.findUserFn == nil {
		panic("FindUser not configured")
	}
	return f.findUserFn(ctx, userID)
}

func (f *fakeLookup) ListAppointmentsForRoomOnDay(ctx context.Context, roomID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	if f.listDayFn == nil {
		panic("ListAppointmentsForRoomOnDay not configured")
	}
	return f.listDayFn(ctx, roomID, day)
}

// bookedLookup knows one room and one user, and serves existing from the
// in-memory slice filtered by room and start day.
func bookedLookup(roomID, userID uuid.UUID, existing ...domain.Appointment) *fakeLookup {
	return &fakeLookup{
		findRoomFn: func(ctx context.Context, id uuid.UUID) (domain.Room, error) {
			if id != roomID {
				return domain.Room{}, store.ErrNotFound
			}
			return domain.Room{ID: id, Name: "Sala 1"}, nil
		},
		findUserFn: func(ctx context.Context, id uuid.UUID) (domain.User, error) {
			if id != userID {
				return domain.User{}, store.ErrNotFound
			}
			return domain.User{ID: id, Name: "Ana", Email: "ana@example.com"}, nil
		},
		listDayFn: func(ctx context.Context, id uuid.UUID, day time.Time) ([]domain.Appointment, error) {
			var out []domain.Appointment
			for _, e := range existing {
				if e.RoomID == id && domain.SameDate(e.StartTime.In(day.Location()), day) {
					out = append(out, e)
				}
			}
			return out, nil
		},
	}
}

func validCandidate(roomID, userID uuid.UUID) Candidate {
	return Candidate{
		UserID:    userID,
		RoomID:    roomID,
		Title:     "Daily",
		Notes:     "Sync with the team",
		StartTime: at(27, 12, 0),
		EndTime:   at(27, 13, 0),
	}
}

func TestValidate_ValidCandidateOnEmptyDay(t *testing.T) {
	roomID, userID := uuid.New(), uuid.New()
	v := NewValidator(DefaultPolicy())

	got, err := v.Validate(context.Background(), bookedLookup(roomID, userID), validCandidate(roomID, userID), testNow)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !got.OK() {
		t.Fatalf("violations = %v, want none", got)
	}
}

func TestValidate_SaturdayCandidate(t *testing.T) {
	roomID, userID := uuid.New(), uuid.New()
	c := validCandidate(roomID, userID)
	c.StartTime = at(29, 12, 0)
	c.EndTime = at(29, 13, 0)

	got, err := NewValidator(DefaultPolicy()).Validate(context.Background(), bookedLookup(roomID, userID), c, testNow)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !got.Has(domain.FieldStartTime, domain.MsgWeekDays) || !got.Has(domain.FieldEndTime, domain.MsgWeekDays) {
		t.Fatalf("violations = %v, want both weekday violations", got)
	}
}

func TestValidate_ConflictInSameRoomOnly(t *testing.T) {
	roomA, roomB, userID := uuid.New(), uuid.New(), uuid.New()
	existing := domain.Appointment{
		ID:        uuid.New(),
		RoomID:    roomA,
		StartTime: time.Date(2022, 12, 26, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2022, 12, 26, 17, 0, 0, 0, time.UTC),
	}
	now := time.Date(2022, 12, 20, 9, 0, 0, 0, time.UTC)
	v := NewValidator(DefaultPolicy())

	c := validCandidate(roomA, userID)
	c.StartTime = time.Date(2022, 12, 26, 12, 0, 0, 0, time.UTC)
	c.EndTime = time.Date(2022, 12, 26, 13, 0, 0, 0, time.UTC)

	got, err := v.Validate(context.Background(), bookedLookup(roomA, userID, existing), c, now)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	want := domain.Violations{{Field: domain.FieldAppointment, Message: domain.MsgAlreadyTook}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("violations = %v, want %v", got, want)
	}

	c.RoomID = roomB
	got, err = v.Validate(context.Background(), bookedLookup(roomB, userID, existing), c, now)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !got.OK() {
		t.Fatalf("violations = %v, want none for a different room", got)
	}
}

func TestValidate_UnchangedUpdateDoesNotConflictWithItself(t *testing.T) {
	roomID, userID := uuid.New(), uuid.New()
	c := validCandidate(roomID, userID)
	c.ID = uuid.New()
	self := domain.Appointment{ID: c.ID, RoomID: roomID, StartTime: c.StartTime, EndTime: c.EndTime}

	got, err := NewValidator(DefaultPolicy()).Validate(context.Background(), bookedLookup(roomID, userID, self), c, testNow)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if got.Has(domain.FieldAppointment, domain.MsgAlreadyTook) {
		t.Fatalf("violations = %v, update conflicted with itself", got)
	}
}

func TestValidate_TruncationIsIdempotent(t *testing.T) {
	roomID, userID := uuid.New(), uuid.New()
	c := validCandidate(roomID, userID)
	c.StartTime = c.StartTime.Add(42*time.Second + 7*time.Millisecond)
	c.EndTime = time.Date(2022, 1, 27, 18, 0, 59, 0, time.UTC)
	v := NewValidator(DefaultPolicy())
	lookup := bookedLookup(roomID, userID)

	first, err := v.Validate(context.Background(), lookup, c, testNow)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	second, err := v.Validate(context.Background(), lookup, c.Normalize(), testNow)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if first.Error() != second.Error() {
		t.Fatalf("violations differ: %q vs %q", first.Error(), second.Error())
	}
	if !first.Has(domain.FieldEndTime, domain.MsgBusinessHours) {
		t.Fatalf("violations = %v, want end_time business hours", first)
	}
}

func TestValidate_FieldsAndReferences(t *testing.T) {
	roomID, userID := uuid.New(), uuid.New()
	c := Candidate{
		UserID:    uuid.New(),
		RoomID:    uuid.New(),
		Title:     strings.Repeat("a", 51),
		Notes:     "   ",
		StartTime: at(27, 12, 0),
		EndTime:   at(27, 13, 0),
	}
	lookup := bookedLookup(roomID, userID)
	lookup.listDayFn = nil

	got, err := NewValidator(DefaultPolicy()).Validate(context.Background(), lookup, c, testNow)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	want := domain.Violations{
		{Field: domain.FieldTitle, Message: "is too long (maximum is 50 characters)"},
		{Field: domain.FieldNotes, Message: domain.MsgBlank},
		{Field: domain.FieldUser, Message: domain.MsgMustExist},
		{Field: domain.FieldRoom, Message: domain.MsgMustExist},
	}
	if len(got) != len(want) {
		t.Fatalf("violations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("violation[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestValidate_SkipsConflictCheckForInvalidInterval(t *testing.T) {
	roomID, userID := uuid.New(), uuid.New()
	c := validCandidate(roomID, userID)
	c.EndTime = time.Time{}
	lookup := bookedLookup(roomID, userID)
	lookup.listDayFn = nil

	got, err := NewValidator(DefaultPolicy()).Validate(context.Background(), lookup, c, testNow)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !got.Has(domain.FieldEndTime, domain.MsgBlank) {
		t.Fatalf("violations = %v, want end_time blank", got)
	}
}

func TestValidate_LookupErrorIsReturned(t *testing.T) {
	roomID, userID := uuid.New(), uuid.New()
	boom := errors.New("boom")
	lookup := bookedLookup(roomID, userID)
	lookup.findRoomFn = func(ctx context.Context, id uuid.UUID) (domain.Room, error) {
		return domain.Room{}, boom
	}

	_, err := NewValidator(DefaultPolicy()).Validate(context.Background(), lookup, validCandidate(roomID, userID), testNow)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
}

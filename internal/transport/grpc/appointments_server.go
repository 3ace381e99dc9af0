package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/service/appointments"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type AppointmentsServer struct {
	svc appointmentsService
	log *slog.Logger
}

type appointmentsService interface {
	Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, in appointments.UpdateInput) (domain.Appointment, error)
	Delete(ctx context.Context, userID, appointmentID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID, page store.Page) ([]domain.Appointment, error)
	ListForRoom(ctx context.Context, roomID uuid.UUID, page store.Page) ([]domain.Appointment, error)
}

var _ AppointmentsServiceServer = (*AppointmentsServer)(nil)

func NewAppointmentsServer(svc appointmentsService, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.appointments")),
	}
}

func (s *AppointmentsServer) CreateAppointment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	r, err := readRequest(req)
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}
	userID, err := r.requiredUUID("user_id")
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}
	roomID, _, err := r.optionalUUID("room_id")
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("user_id", userID.String()))
		return nil, err
	}
	start, _, err := r.optionalTime("start_time")
	if err != nil {
		return nil, err
	}
	end, _, err := r.optionalTime("end_time")
	if err != nil {
		return nil, err
	}
	title, _ := r.optionalString("title")
	notes, _ := r.optionalString("notes")

	appt, err := s.svc.Create(ctx, appointments.CreateInput{
		UserID:         userID,
		RoomID:         roomID,
		Title:          title,
		Notes:          notes,
		StartTime:      start,
		EndTime:        end,
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, s.toStatus(log, err, slog.String("user_id", userID.String()))
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("user_id", appt.UserID.String()),
		slog.String("room_id", appt.RoomID.String()),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	return appointmentResponse(appt), nil
}

func (s *AppointmentsServer) UpdateAppointment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "UpdateAppointment"))

	r, err := readRequest(req)
	if err != nil {
		return nil, err
	}
	userID, err := r.requiredUUID("user_id")
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}
	apptID, err := r.requiredUUID("appointment_id")
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("user_id", userID.String()))
		return nil, err
	}

	in := appointments.UpdateInput{UserID: userID, AppointmentID: apptID}
	if roomID, ok, err := r.optionalUUID("room_id"); err != nil {
		return nil, err
	} else if ok {
		in.RoomID = &roomID
	}
	if start, ok, err := r.optionalTime("start_time"); err != nil {
		return nil, err
	} else if ok {
		in.StartTime = &start
	}
	if end, ok, err := r.optionalTime("end_time"); err != nil {
		return nil, err
	} else if ok {
		in.EndTime = &end
	}
	if title, ok := r.optionalString("title"); ok {
		in.Title = &title
	}
	if notes, ok := r.optionalString("notes"); ok {
		in.Notes = &notes
	}

	appt, err := s.svc.Update(ctx, in)
	if err != nil {
		return nil, s.toStatus(log, err, slog.String("appointment_id", apptID.String()), slog.String("user_id", userID.String()))
	}

	log.Info(
		"appointment updated",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("room_id", appt.RoomID.String()),
		slog.Time("start_time", appt.StartTime),
		slog.Time("end_time", appt.EndTime),
	)
	return appointmentResponse(appt), nil
}

func (s *AppointmentsServer) DeleteAppointment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "DeleteAppointment"))

	r, err := readRequest(req)
	if err != nil {
		return nil, err
	}
	userID, err := r.requiredUUID("user_id")
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}
	apptID, err := r.requiredUUID("appointment_id")
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("user_id", userID.String()))
		return nil, err
	}

	if err := s.svc.Delete(ctx, userID, apptID); err != nil {
		return nil, s.toStatus(log, err, slog.String("appointment_id", apptID.String()), slog.String("user_id", userID.String()))
	}

	log.Info("appointment deleted", slog.String("appointment_id", apptID.String()), slog.String("user_id", userID.String()))
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

func (s *AppointmentsServer) ListUserAppointments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "ListUserAppointments"))

	r, err := readRequest(req)
	if err != nil {
		return nil, err
	}
	userID, err := r.requiredUUID("user_id")
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}

	appts, err := s.svc.ListForUser(ctx, userID, r.page())
	if err != nil {
		return nil, s.toStatus(log, err, slog.String("user_id", userID.String()))
	}

	log.Debug("appointments listed", slog.String("user_id", userID.String()), slog.Int("count", len(appts)))
	return listResponse(appts), nil
}

func (s *AppointmentsServer) ListRoomAppointments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := s.log.With(slog.String("rpc", "ListRoomAppointments"))

	r, err := readRequest(req)
	if err != nil {
		return nil, err
	}
	roomID, err := r.requiredUUID("room_id")
	if err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}

	appts, err := s.svc.ListForRoom(ctx, roomID, r.page())
	if err != nil {
		return nil, s.toStatus(log, err, slog.String("room_id", roomID.String()))
	}

	log.Debug("appointments listed", slog.String("room_id", roomID.String()), slog.Int("count", len(appts)))
	return listResponse(appts), nil
}

// toStatus maps service errors to gRPC statuses. Violations travel as a
// BadRequest detail so clients can read them field by field.
func (s *AppointmentsServer) toStatus(log *slog.Logger, err error, attrs ...any) error {
	var v domain.Violations
	switch {
	case errors.As(err, &v):
		log.Info("appointment rejected", append(attrs, slog.String("violations", v.Error()))...)
		return violationsStatus(v)
	case errors.Is(err, store.ErrNotFound):
		log.Info("not found", attrs...)
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, store.ErrIdempotencyConflict):
		log.Info("idempotency conflict", attrs...)
		return status.Error(codes.FailedPrecondition, "This request key was already used for a different appointment. Try again.")
	default:
		log.Error("request failed", append(attrs, slog.Any("err", err))...)
		return status.Error(codes.Internal, "internal error")
	}
}

func violationsStatus(v domain.Violations) error {
	br := &errdetails.BadRequest{}
	for _, item := range v {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       item.Field,
			Description: item.Message,
		})
	}
	st, err := status.New(codes.InvalidArgument, v.Error()).WithDetails(br)
	if err != nil {
		return status.Error(codes.InvalidArgument, v.Error())
	}
	return st.Err()
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func appointmentResponse(a domain.Appointment) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"appointment": structpb.NewStructValue(appointmentStruct(a)),
	}}
}

func listResponse(list []domain.Appointment) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(list))
	for _, a := range list {
		values = append(values, structpb.NewStructValue(appointmentStruct(a)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"appointments": structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

func appointmentStruct(a domain.Appointment) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":         structpb.NewStringValue(a.ID.String()),
		"user_id":    structpb.NewStringValue(a.UserID.String()),
		"room_id":    structpb.NewStringValue(a.RoomID.String()),
		"title":      structpb.NewStringValue(a.Title),
		"notes":      structpb.NewStringValue(a.Notes),
		"start_time": structpb.NewStringValue(a.StartTime.UTC().Format(time.RFC3339)),
		"end_time":   structpb.NewStringValue(a.EndTime.UTC().Format(time.RFC3339)),
		"created_at": structpb.NewStringValue(a.CreatedAt.UTC().Format(time.RFC3339)),
		"updated_at": structpb.NewStringValue(a.UpdatedAt.UTC().Format(time.RFC3339)),
	}}
}

package grpc

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

// request reads typed fields from a Struct. Absent and null fields are
// treated the same.
type request struct {
	fields map[string]*structpb.Value
}

func readRequest(req *structpb.Struct) (request, error) {
	if req == nil {
		return request{}, status.Error(codes.InvalidArgument, "request is required")
	}
	return request{fields: req.GetFields()}, nil
}

func (r request) value(key string) (*structpb.Value, bool) {
	v, ok := r.fields[key]
	if !ok || v == nil {
		return nil, false
	}
	if _, null := v.GetKind().(*structpb.Value_NullValue); null {
		return nil, false
	}
	return v, true
}

func (r request) optionalString(key string) (string, bool) {
	v, ok := r.value(key)
	if !ok {
		return "", false
	}
	return v.GetStringValue(), true
}

func (r request) requiredUUID(key string) (uuid.UUID, error) {
	s, _ := r.optionalString(key)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s must be a UUID", key)
	}
	return id, nil
}

// optionalUUID returns uuid.Nil for a blank value, which the booking
// rules report as a missing reference.
func (r request) optionalUUID(key string) (uuid.UUID, bool, error) {
	s, ok := r.optionalString(key)
	if !ok {
		return uuid.Nil, false, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, true, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false, status.Errorf(codes.InvalidArgument, "%s must be a UUID", key)
	}
	return id, true, nil
}

// optionalTime reads an RFC 3339 instant. A blank value is the zero time.
func (r request) optionalTime(key string) (time.Time, bool, error) {
	s, ok := r.optionalString(key)
	if !ok {
		return time.Time{}, false, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, status.Errorf(codes.InvalidArgument, "%s must be an RFC 3339 timestamp", key)
	}
	return t, true, nil
}

func (r request) page() store.Page {
	var p store.Page
	if v, ok := r.value("page_number"); ok {
		p.Number = pageField(v.GetNumberValue(), store.MaxPageNumber)
	}
	if v, ok := r.value("page_size"); ok {
		p.Size = pageField(v.GetNumberValue(), store.MaxPageSize)
	}
	return p
}

// pageField converts a JSON number to an int in [0, limit]. NaN and values
// below one become zero so Normalize applies the default.
func pageField(f float64, limit int) int {
	switch {
	case math.IsNaN(f) || f < 1:
		return 0
	case f >= float64(limit):
		return limit
	default:
		return int(f)
	}
}

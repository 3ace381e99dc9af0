package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
)

const (
	typeUsers        = "users"
	typeRooms        = "rooms"
	typeAppointments = "appointments"
)

type document struct {
	Data any `json:"data"`
}

type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
}

type relationship struct {
	Data  *identifier       `json:"data,omitempty"`
	Links map[string]string `json:"links,omitempty"`
}

type identifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type requestDocument[A any] struct {
	Data struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Attributes A      `json:"attributes"`
	} `json:"data"`
}

type userAttributes struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type roomAttributes struct {
	Name *string `json:"name"`
}

type appointmentAttributes struct {
	Title     *string `json:"title"`
	Notes     *string `json:"notes"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	RoomID    *string `json:"room_id"`
}

func userResource(u domain.User) resource {
	id := u.ID.String()
	return resource{
		ID:   id,
		Type: typeUsers,
		Attributes: map[string]any{
			"name":  u.Name,
			"email": u.Email,
		},
		Relationships: map[string]relationship{
			"appointments": {Links: map[string]string{
				"related": "/v1/users/" + id + "/relationships/appointments",
			}},
		},
	}
}

func roomResource(r domain.Room) resource {
	id := r.ID.String()
	return resource{
		ID:   id,
		Type: typeRooms,
		Attributes: map[string]any{
			"name": r.Name,
		},
		Relationships: map[string]relationship{
			"appointments": {Links: map[string]string{
				"related": "/v1/rooms/" + id + "/relationships/appointments",
			}},
		},
	}
}

func appointmentResource(a domain.Appointment, loc *time.Location) resource {
	return resource{
		ID:   a.ID.String(),
		Type: typeAppointments,
		Attributes: map[string]any{
			"title":      a.Title,
			"notes":      a.Notes,
			"start-time": formatTime(a.StartTime, loc),
			"end-time":   formatTime(a.EndTime, loc),
		},
		Relationships: map[string]relationship{
			"user": {Data: &identifier{ID: a.UserID.String(), Type: typeUsers}},
			"room": {Data: &identifier{ID: a.RoomID.String(), Type: typeRooms}},
		},
	}
}

func resources[T any](items []T, render func(T) resource) []resource {
	out := make([]resource, 0, len(items))
	for _, it := range items {
		out = append(out, render(it))
	}
	return out
}

// formatTime renders t as "dd/mm/yyyy hh:mm" with a space-padded hour,
// e.g. "27/12/2022  9:00".
func formatTime(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%02d/%02d/%04d %2d:%02d", t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute())
}

var localLayouts = []string{
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// parseTime reads a wall-clock time in loc, or an RFC 3339 instant.
// Blank and unreadable values come back as the zero time, which the
// booking rules report as blank.
func parseTime(s string, loc *time.Location) time.Time {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseID maps a malformed id to uuid.Nil, which never names a row.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

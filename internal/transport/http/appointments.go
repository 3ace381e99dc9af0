package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/service/appointments"
)

const idempotencyKeyHeader = "Idempotency-Key"

func (h *handlers) appointmentResources(list []domain.Appointment) []resource {
	return resources(list, func(a domain.Appointment) resource {
		return appointmentResource(a, h.loc)
	})
}

// requireUser resolves the :id path user or writes a 404.
func (h *handlers) requireUser(c *gin.Context) (uuid.UUID, bool) {
	user, err := h.svc.Users.Get(c.Request.Context(), parseID(c.Param("id")))
	if err != nil {
		h.writeError(c, err, "User", c.Param("id"))
		return uuid.Nil, false
	}
	return user.ID, true
}

// renderUserAppointments answers a write with the user's current bookings.
func (h *handlers) renderUserAppointments(c *gin.Context, userID uuid.UUID, status int) {
	list, err := h.svc.Appointments.ListForUser(c.Request.Context(), userID, pageFrom(c))
	if err != nil {
		h.writeError(c, err, "User", userID.String())
		return
	}
	respond(c, status, document{Data: h.appointmentResources(list)})
}

func (h *handlers) listUserAppointments(c *gin.Context) {
	list, err := h.svc.Appointments.ListForUser(c.Request.Context(), parseID(c.Param("id")), pageFrom(c))
	if err != nil {
		h.writeError(c, err, "User", c.Param("id"))
		return
	}
	respond(c, http.StatusOK, document{Data: h.appointmentResources(list)})
}

func (h *handlers) createAppointment(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	doc, ok := bindDocument[appointmentAttributes](c)
	if !ok {
		return
	}

	attrs := doc.Data.Attributes
	_, err := h.svc.Appointments.Create(c.Request.Context(), appointments.CreateInput{
		UserID:         userID,
		RoomID:         parseID(deref(attrs.RoomID)),
		Title:          deref(attrs.Title),
		Notes:          deref(attrs.Notes),
		StartTime:      parseTime(deref(attrs.StartTime), h.loc),
		EndTime:        parseTime(deref(attrs.EndTime), h.loc),
		IdempotencyKey: c.GetHeader(idempotencyKeyHeader),
	})
	if err != nil {
		h.writeError(c, err, "User", userID.String())
		return
	}

	c.Header("Location", "/v1/users/"+userID.String()+"/relationships/appointments")
	h.renderUserAppointments(c, userID, http.StatusCreated)
}

func (h *handlers) updateAppointment(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	doc, ok := bindDocument[appointmentAttributes](c)
	if !ok {
		return
	}

	attrs := doc.Data.Attributes
	in := appointments.UpdateInput{
		UserID:        userID,
		AppointmentID: parseID(doc.Data.ID),
		Title:         attrs.Title,
		Notes:         attrs.Notes,
		StartTime:     h.optionalTime(attrs.StartTime),
		EndTime:       h.optionalTime(attrs.EndTime),
	}
	if attrs.RoomID != nil {
		roomID := parseID(*attrs.RoomID)
		in.RoomID = &roomID
	}

	if _, err := h.svc.Appointments.Update(c.Request.Context(), in); err != nil {
		h.writeError(c, err, "Appointment", doc.Data.ID)
		return
	}
	h.renderUserAppointments(c, userID, http.StatusOK)
}

func (h *handlers) deleteAppointment(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	doc, ok := bindDocument[struct{}](c)
	if !ok {
		return
	}

	if err := h.svc.Appointments.Delete(c.Request.Context(), userID, parseID(doc.Data.ID)); err != nil {
		h.writeError(c, err, "Appointment", doc.Data.ID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) optionalTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseTime(*s, h.loc)
	return &t
}

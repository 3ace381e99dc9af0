package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listRooms(c *gin.Context) {
	list, err := h.svc.Rooms.List(c.Request.Context(), pageFrom(c))
	if err != nil {
		h.writeError(c, err, "Room", "")
		return
	}
	respond(c, http.StatusOK, document{Data: resources(list, roomResource)})
}

func (h *handlers) showRoom(c *gin.Context) {
	room, err := h.svc.Rooms.Get(c.Request.Context(), parseID(c.Param("id")))
	if err != nil {
		h.writeError(c, err, "Room", c.Param("id"))
		return
	}
	respond(c, http.StatusOK, document{Data: roomResource(room)})
}

func (h *handlers) createRoom(c *gin.Context) {
	doc, ok := bindDocument[roomAttributes](c)
	if !ok {
		return
	}

	room, err := h.svc.Rooms.Create(c.Request.Context(), deref(doc.Data.Attributes.Name))
	if err != nil {
		h.writeError(c, err, "Room", "")
		return
	}

	c.Header("Location", "/v1/rooms/"+room.ID.String())
	respond(c, http.StatusCreated, document{Data: roomResource(room)})
}

func (h *handlers) updateRoom(c *gin.Context) {
	doc, ok := bindDocument[roomAttributes](c)
	if !ok {
		return
	}

	room, err := h.svc.Rooms.Update(c.Request.Context(), parseID(c.Param("id")), doc.Data.Attributes.Name)
	if err != nil {
		h.writeError(c, err, "Room", c.Param("id"))
		return
	}
	respond(c, http.StatusOK, document{Data: roomResource(room)})
}

func (h *handlers) deleteRoom(c *gin.Context) {
	if err := h.svc.Rooms.Delete(c.Request.Context(), parseID(c.Param("id"))); err != nil {
		h.writeError(c, err, "Room", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listRoomAppointments(c *gin.Context) {
	list, err := h.svc.Appointments.ListForRoom(c.Request.Context(), parseID(c.Param("id")), pageFrom(c))
	if err != nil {
		h.writeError(c, err, "Room", c.Param("id"))
		return
	}
	respond(c, http.StatusOK, document{Data: h.appointmentResources(list)})
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lsfernandes92/desafio-ninja/internal/service/users"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

func pageFrom(c *gin.Context) store.Page {
	number, _ := strconv.Atoi(c.Query("page[number]"))
	size, _ := strconv.Atoi(c.Query("page[size]"))
	return store.Page{Number: number, Size: size}
}

func bindDocument[A any](c *gin.Context) (requestDocument[A], bool) {
	var doc requestDocument[A]
	if err := c.ShouldBindJSON(&doc); err != nil {
		writeStatusError(c, http.StatusBadRequest, "Malformed JSON:API document")
		return doc, false
	}
	return doc, true
}

func (h *handlers) listUsers(c *gin.Context) {
	list, err := h.svc.Users.List(c.Request.Context(), pageFrom(c))
	if err != nil {
		h.writeError(c, err, "User", "")
		return
	}
	respond(c, http.StatusOK, document{Data: resources(list, userResource)})
}

func (h *handlers) showUser(c *gin.Context) {
	user, err := h.svc.Users.Get(c.Request.Context(), parseID(c.Param("id")))
	if err != nil {
		h.writeError(c, err, "User", c.Param("id"))
		return
	}
	respond(c, http.StatusOK, document{Data: userResource(user)})
}

func (h *handlers) createUser(c *gin.Context) {
	doc, ok := bindDocument[userAttributes](c)
	if !ok {
		return
	}

	user, err := h.svc.Users.Create(c.Request.Context(), users.CreateInput{
		Name:  deref(doc.Data.Attributes.Name),
		Email: deref(doc.Data.Attributes.Email),
	})
	if err != nil {
		h.writeError(c, err, "User", "")
		return
	}

	c.Header("Location", "/v1/users/"+user.ID.String())
	respond(c, http.StatusCreated, document{Data: userResource(user)})
}

func (h *handlers) updateUser(c *gin.Context) {
	doc, ok := bindDocument[userAttributes](c)
	if !ok {
		return
	}

	user, err := h.svc.Users.Update(c.Request.Context(), users.UpdateInput{
		ID:    parseID(c.Param("id")),
		Name:  doc.Data.Attributes.Name,
		Email: doc.Data.Attributes.Email,
	})
	if err != nil {
		h.writeError(c, err, "User", c.Param("id"))
		return
	}
	respond(c, http.StatusOK, document{Data: userResource(user)})
}

func (h *handlers) deleteUser(c *gin.Context) {
	if err := h.svc.Users.Delete(c.Request.Context(), parseID(c.Param("id"))); err != nil {
		h.writeError(c, err, "User", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

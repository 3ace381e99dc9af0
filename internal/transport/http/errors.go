package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/service/appointments"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type errorObject struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type errorsDocument struct {
	Errors []errorObject `json:"errors"`
}

type statusError struct {
	Message string `json:"error_message"`
	Status  string `json:"error_status"`
}

func writeStatusError(c *gin.Context, status int, msg string) {
	c.Header("Content-Type", MediaType)
	c.AbortWithStatusJSON(status, statusError{Message: msg, Status: strconv.Itoa(status)})
}

func writeViolations(c *gin.Context, status int, v domain.Violations) {
	doc := errorsDocument{Errors: make([]errorObject, 0, len(v))}
	for _, item := range v {
		doc.Errors = append(doc.Errors, errorObject{ID: item.Field, Title: item.Message})
	}
	c.Header("Content-Type", MediaType)
	c.AbortWithStatusJSON(status, doc)
}

func notFound(c *gin.Context, model, id string) {
	writeStatusError(c, http.StatusNotFound, fmt.Sprintf("Couldn't find %s with 'id'=%s", model, id))
}

// writeError maps service errors to responses. model and id describe the
// record a store.ErrNotFound refers to.
func (h *handlers) writeError(c *gin.Context, err error, model, id string) {
	var v domain.Violations
	switch {
	case errors.As(err, &v):
		writeViolations(c, http.StatusUnprocessableEntity, v)
	case errors.Is(err, store.ErrNotFound):
		notFound(c, model, id)
	case errors.Is(err, store.ErrIdempotencyConflict):
		writeViolations(c, http.StatusConflict, domain.Violations{
			{Field: appointments.FieldIdempotencyKey, Message: domain.MsgTaken},
		})
	default:
		h.log.Error("request failed", "err", err, "path", c.Request.URL.Path)
		writeStatusError(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

func respond(c *gin.Context, status int, doc document) {
	c.Header("Content-Type", MediaType)
	c.JSON(status, doc)
}

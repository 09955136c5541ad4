package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/interfaces/http/dto"
	"github.com/campusledger/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides the response helpers shared by all API handlers.
type BaseHandler struct{}

// OK sends a 200 response with the given body.
func (h *BaseHandler) OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Created sends a 201 response wrapping the entity under its key next to a
// human-readable message.
func (h *BaseHandler) Created(c *gin.Context, message, key string, entity any) {
	c.JSON(http.StatusCreated, gin.H{"message": message, key: entity})
}

// BadRequest sends a 400 response with the given message.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(message))
}

// HandleError renders a service error. Domain errors map to their HTTP
// status; anything else becomes an opaque 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("An unexpected error occurred"))
}

// requireActor pulls the authenticated actor set by the JWT middleware.
// A missing actor means the route was wired without authentication.
func requireActor(c *gin.Context) (identity.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return identity.Actor{}, false
	}
	return actor, true
}

// bindJSON binds the request body and renders a flat 400 on failure.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters and renders a flat 400 on failure.
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// parseIDParam parses the :id path parameter as a UUID and renders a flat
// 400 on failure.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid "+name+" ID format")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

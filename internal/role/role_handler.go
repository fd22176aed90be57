package role

import (
	"net/http"

	"github.com/gin-gonic/gin"

	roleerrors "leavedesk/internal/role/errors"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetForUser(c *gin.Context) {
	userID := c.Param("userID")

	roles, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, RolesResponse{
		UserID: userID,
		Roles:  Strings(roles),
	}, nil)
}

func (h *Handler) Grant(c *gin.Context) {
	var req MutateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	r, ok := Parse(req.Role)
	if !ok {
		writeServiceError(c, roleerrors.ErrInvalidRole)
		return
	}

	if err := h.service.Grant(c.Request.Context(), ActorFrom(c), req.UserID, r); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_id": req.UserID, "role": req.Role, "granted": true}, nil)
}

func (h *Handler) Revoke(c *gin.Context) {
	var req MutateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	r, ok := Parse(req.Role)
	if !ok {
		writeServiceError(c, roleerrors.ErrInvalidRole)
		return
	}

	if err := h.service.Revoke(c.Request.Context(), ActorFrom(c), req.UserID, r); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_id": req.UserID, "role": req.Role, "revoked": true}, nil)
}

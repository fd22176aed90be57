package capacity

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/daterange"
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

// GetRange serves the calendar view: ?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Defaults to today when no range is given.
func (h *Handler) GetRange(c *gin.Context) {
	now := time.Now()
	startStr := c.DefaultQuery("start", daterange.Format(now))
	endStr := c.DefaultQuery("end", startStr)

	start, err := daterange.Parse(startStr)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	end, err := daterange.Parse(endStr)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.Range(c.Request.Context(), start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// GetToday serves the dashboard's today/tomorrow strength cards.
func (h *Handler) GetToday(c *gin.Context) {
	today := daterange.Normalize(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	resp, err := h.service.Range(c.Request.Context(), today, tomorrow)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"today":    resp[0],
		"tomorrow": resp[1],
	}, nil)
}

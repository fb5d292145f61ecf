package restapi

import (
	"errors"
	"net/http"
	"time"

	"aura_gateway/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// respondOK writes the success envelope. extra is merged at the top level (meta, filters, message).
func respondOK(c *gin.Context, data any, extra gin.H) {
	body := gin.H{
		"success":   true,
		"data":      data,
		"timestamp": timestamp(),
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondBadRequest(c *gin.Context, title string, details []entity.FieldError) {
	body := gin.H{
		"success":   false,
		"error":     title,
		"timestamp": timestamp(),
	}
	if len(details) > 0 {
		body["details"] = details
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// errorTitles name the failure for a handler.
type errorTitles struct {
	failed   string
	notFound string
}

// respondError maps a service error onto a status code and the error envelope.
func (h *Handler) respondError(c *gin.Context, err error, titles errorTitles) {
	_ = c.Error(err)

	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		body := gin.H{
			"success":   false,
			"error":     "Invalid request parameters",
			"message":   verr.Error(),
			"details":   verr.Fields,
			"timestamp": timestamp(),
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
		return
	}

	var funds *entity.InsufficientFundsError
	if errors.As(err, &funds) {
		body := gin.H{
			"success":   false,
			"message":   funds.Error(),
			"timestamp": timestamp(),
		}
		if errors.Is(funds.Kind, entity.ErrInsufficientGas) {
			body["error"] = "Insufficient " + funds.Symbol + " for gas fees"
			body["data"] = gin.H{
				"requiredGas":  funds.Required,
				"availableETH": funds.Available,
				"shortfall":    funds.Shortfall,
			}
		} else {
			body["error"] = "Insufficient balance"
			body["data"] = gin.H{
				"requested": funds.Required,
				"available": funds.Available,
				"token":     funds.Symbol,
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
		return
	}

	status := http.StatusInternalServerError
	title := titles.failed
	switch {
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
		if titles.notFound != "" {
			title = titles.notFound
		}
	case errors.Is(err, entity.ErrNotConfigured):
		status = http.StatusServiceUnavailable
		title = err.Error()
	case errors.Is(err, entity.ErrUnknownToken),
		errors.Is(err, entity.ErrUnsupportedOperation),
		errors.Is(err, entity.ErrUnsupportedNetwork),
		errors.Is(err, entity.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(title, zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success":   false,
		"error":     title,
		"message":   err.Error(),
		"timestamp": timestamp(),
	})
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func (h *Handler) respondError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	msg := apiErr.Error()
	if apiErr.Status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "user_id", c.Param("userID"), "error", err)
		msg = "internal server error"
	}
	c.JSON(apiErr.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apiErr.Code,
		},
	})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

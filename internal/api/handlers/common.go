package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepmate/prepmate/internal/utils"
)

// APIError is the uniform failure shape at the HTTP boundary.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{Error: ae.Message, Details: utils.Details(err)})
		return
	}
	c.JSON(status, APIError{Error: http.StatusText(status), Details: utils.Details(err)})
}

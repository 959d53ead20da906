package handlers

import (
	"errors"
	"net/http"

	"powerview/internal/api/models"
	"powerview/internal/model"

	"github.com/gin-gonic/gin"
)

// respondError maps engine error kinds onto HTTP statuses.
func respondError(c *gin.Context, code string, err error) {
	status := http.StatusInternalServerError
	var me *model.Error
	if errors.As(err, &me) {
		switch me.Kind {
		case model.InvalidArgument, model.OutOfRange:
			status = http.StatusBadRequest
		case model.DataMisalignment:
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
				Details: map[string]interface{}{"kind": me.Kind.String()},
			},
		})
		return
	}
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

package helper

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"usuariosapi/internal/adapter/http/validation"
	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	resp := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		resp.Message = message[0]
	}

	c.JSON(statusCode, resp)
}

func SendError(c *gin.Context, statusCode int, code string, message string, details ...string) {
	c.JSON(statusCode, response.ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	})
}

func SendValidationError(c *gin.Context, err error) {
	var details []string

	for _, fieldError := range validation.FormatValidationErrors(err) {
		details = append(details, fmt.Sprintf("%s: %s", fieldError.Field, fieldError.Message))
	}

	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Erro de validação", details...)
}

// SendBadRequestError covers binding-level failures (unreadable body,
// malformed path id) with the same wire code the field validations use.
func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// SendDomainError maps each domain error to its HTTP status and wire code.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUsuarioNotFound):
		SendError(c, http.StatusNotFound, "USER_NOT_FOUND", domain.ErrUsuarioNotFound.Error())
	case errors.Is(err, domain.ErrDocumentExists):
		SendError(c, http.StatusConflict, "DOCUMENT_EXISTS", domain.ErrDocumentExists.Error())
	case errors.Is(err, domain.ErrCepNotFound):
		SendError(c, http.StatusBadRequest, "INVALID_CEP", err.Error())
	case errors.Is(err, domain.ErrCepService):
		SendError(c, http.StatusServiceUnavailable, "CEP_ERROR", domain.ErrCepService.Error())
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidBirthDate),
		errors.Is(err, domain.ErrInvalidDocument):
		SendError(c, http.StatusBadRequest, "INVALID_UPDATE", err.Error())
	default:
		SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro interno no servidor")
	}
}

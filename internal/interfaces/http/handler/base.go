package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	transferapp "github.com/tustockya/transfers/internal/application/transfer"
	"github.com/tustockya/transfers/internal/domain/shared"
	"github.com/tustockya/transfers/internal/domain/transfer"
	"github.com/tustockya/transfers/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts application and domain errors to HTTP responses.
// Workflow service rejections pass through with their own status-coded
// detail; transport failures surface as a gateway error.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErrs transferapp.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]dto.FieldError, 0, len(validationErrs))
		for _, ve := range validationErrs {
			fields = append(fields, dto.FieldError{Field: ve.Field, Message: ve.Message})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", fields))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, domainErr.Message))
		return
	}

	var netErr *transfer.NetworkError
	if errors.As(err, &netErr) {
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(dto.ErrCodeUpstreamUnreachable, netErr.Error()))
		return
	}

	var svcErr *transfer.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.StatusCode, dto.NewErrorResponse(dto.ErrCodeUpstream, svcErr.Error()))
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}

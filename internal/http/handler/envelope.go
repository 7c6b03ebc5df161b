package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/LocialWang/coze-word-upload-plugin/internal/service"
)

// Error kinds carried in the envelope's code field.
const (
	CodeFileRequired     = "FILE_REQUIRED"
	CodeFileOpenError    = "FILE_OPEN_ERROR"
	CodeInvalidFileType  = "INVALID_FILE_TYPE"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeExtractionFailed = "EXTRACTION_FAILED"
	CodeDocumentNotFound = "DOCUMENT_NOT_FOUND"
	CodeDeletionFailed   = "DELETION_FAILED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// envelope is the uniform response wrapper of every data endpoint. Code is
// set only on failures and names the error kind.
type envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeData(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// writeServiceError translates service errors into envelope responses.
// Validation and extraction failures keep their message for diagnostics;
// anything unrecognized becomes a detail-free 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrFileRequired):
		return writeError(c, fiber.StatusBadRequest, CodeFileRequired, err.Error())
	case errors.Is(err, service.ErrInvalidFileType):
		return writeError(c, fiber.StatusBadRequest, CodeInvalidFileType, err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusBadRequest, CodeFileTooLarge, err.Error())
	case errors.Is(err, service.ErrExtractionFailed):
		return writeError(c, fiber.StatusInternalServerError, CodeExtractionFailed, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, CodeDocumentNotFound, "document not found")
	case errors.Is(err, service.ErrDeletionFailed):
		return writeError(c, fiber.StatusInternalServerError, CodeDeletionFailed, err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, CodeInternalError, "internal server error")
	}
}

// ErrorHandler returns the global Fiber error handler. It standardizes
// responses for errors raised outside handlers and translates the body-limit
// 413 into the contractual 400 for oversized uploads.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fiber.StatusBadRequest, CodeFileTooLarge, "file exceeds the upload size limit")
		case fiber.StatusBadRequest:
			return writeError(c, status, CodeBadRequest, "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, CodeNotFound, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, CodeMethodNotAllowed, "method not allowed")
		default:
			return writeError(c, fiber.StatusInternalServerError, CodeInternalError, "internal server error")
		}
	}
}

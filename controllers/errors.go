package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harut-11/Emotional/apperrors"
)

// respondError 把错误种类统一映射为HTTP状态码，错误到状态码的映射只在这里做一次
func respondError(c *gin.Context, err error, message string) {
	c.JSON(statusFor(err), gin.H{"error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientData):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		// AnalysisFailed / MalformedForecast / StorageUnavailable
		return http.StatusInternalServerError
	}
}

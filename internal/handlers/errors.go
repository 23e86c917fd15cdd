package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondWithError writes the error kind and message for err.
// Server failures are logged and their details hidden from the caller.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := apperrors.HTTPStatus(err)
	kind := apperrors.KindOf(err)

	if !apperrors.IsClientError(err) {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: msg, Code: string(kind)})
		return
	}

	logger.Warn(msg, slog.String("error", err.Error()), slog.String("code", string(kind)))
	c.JSON(status, dto.ErrorResponse{Error: err.Error(), Code: string(kind)})
}

// respondWithBindError answers a request body or query that failed binding.
func respondWithBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request format: " + err.Error(),
		Code:  string(apperrors.KindValidation),
	})
}

// actorID returns the acting party recorded by ActorMiddleware.
func actorID(c *gin.Context) string {
	if id, ok := middleware.GetActorIDFromContext(c); ok {
		return id
	}
	return middleware.DefaultActor
}

package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterLedgerRoutes registers ledger-wide routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc) {
	rg.GET("/ledger/integrity", func(c *gin.Context) {
		checkIntegrity(c, ledgerService)
	})
}

// checkIntegrity godoc
// @Summary Check ledger integrity
// @Description Verifies that account totals balance and agree with the posted journal lines
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.IntegrityResponse "Ledger is consistent"
// @Failure 500 {object} dto.IntegrityResponse "Ledger is inconsistent"
// @Router /ledger/integrity [get]
func checkIntegrity(c *gin.Context, ledgerService portssvc.LedgerSvc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := ledgerService.CheckIntegrity(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to check ledger integrity")
		return
	}

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.ToIntegrityResponse(report))
}

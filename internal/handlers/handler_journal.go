package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postJournalEntry)
		journals.POST("/validate", h.validateJournalEntry)
		journals.GET("", h.listJournalEntries)
		journals.GET("/:id", h.getJournalEntry)
		journals.POST("/:id/reverse", h.reverseJournalEntry)
		journals.DELETE("/:id", h.deleteJournalEntry)
	}
}

// postJournalEntry godoc
// @Summary Post a journal entry
// @Description Validates a journal entry and applies it to account totals in one atomic step
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   entry body dto.PostJournalEntryRequest true "Journal entry"
// @Param   X-Actor-ID header string false "Acting user recorded in audit fields"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Entry failed validation"
// @Failure 409 {object} dto.ErrorResponse "Ledger modified concurrently, retry"
// @Failure 500 {object} dto.ErrorResponse "Failed to post journal entry"
// @Router /journals [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, logger, err)
		return
	}

	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), req, actorID(c))
	if err != nil {
		respondWithError(c, logger, err, "Failed to post journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// validateJournalEntry godoc
// @Summary Validate a journal entry without posting it
// @Description Runs the posting checks and reports the first failure, if any. Nothing is stored.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   entry body dto.PostJournalEntryRequest true "Journal entry"
// @Success 200 {object} dto.ValidateJournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 500 {object} dto.ErrorResponse "Failed to validate journal entry"
// @Router /journals/validate [post]
func (h *journalHandler) validateJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, logger, err)
		return
	}

	totals, err := h.journalService.ValidateJournalEntry(c.Request.Context(), req)
	if err != nil {
		if apperrors.IsValidationKind(err) {
			c.JSON(http.StatusOK, dto.ValidateJournalEntryResponse{
				Valid: false,
				Code:  string(apperrors.KindOf(err)),
				Error: err.Error(),
			})
			return
		}
		respondWithError(c, logger, err, "Failed to validate journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ValidateJournalEntryResponse{
		Valid:       true,
		TotalDebit:  totals.Debit,
		TotalCredit: totals.Credit,
	})
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Lists posted journal entries, newest first, with token pagination
// @Tags journals
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to list journal entries"
// @Router /journals [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindError(c, logger, err)
		return
	}

	resp, err := h.journalService.ListJournalEntries(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve journal entry"
// @Router /journals/{id} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), journalID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("journal_id", journalID)), err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseJournalEntry godoc
// @Summary Reverse a journal entry
// @Description Posts a new entry with every line's debit and credit swapped. An entry can be reversed once.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Optional date, description and reference"
// @Param   X-Actor-ID header string false "Acting user recorded in audit fields"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Reversal failed validation"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry already reversed"
// @Failure 500 {object} dto.ErrorResponse "Failed to reverse journal entry"
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	var req dto.ReverseJournalEntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithBindError(c, logger, err)
			return
		}
	}

	entry, err := h.journalService.ReverseJournalEntry(c.Request.Context(), journalID, req, actorID(c))
	if err != nil {
		respondWithError(c, logger.With(slog.String("journal_id", journalID)), err, "Failed to reverse journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// deleteJournalEntry godoc
// @Summary Delete a journal entry (not allowed)
// @Description Posted entries are immutable; post a reversal instead
// @Tags journals
// @Param   id path string true "Journal ID"
// @Failure 405 {object} dto.ErrorResponse "Posted entries cannot be deleted"
// @Router /journals/{id} [delete]
func (h *journalHandler) deleteJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	err := fmt.Errorf("%w: journal entry %s cannot be deleted, post a reversal instead", apperrors.ErrImmutableEntry, c.Param("id"))
	respondWithError(c, logger, err, "Journal entry deletion refused")
}

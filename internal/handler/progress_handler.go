package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solvetrack/internal/service"
	"solvetrack/pkg/response"
	"solvetrack/pkg/validator"
)

type ProgressHandler struct {
	service service.LedgerService
}

func NewProgressHandler(ledgerService service.LedgerService) *ProgressHandler {
	return &ProgressHandler{service: ledgerService}
}

type adjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustProgress applies a signed delta to the caller's solved count.
// "required" also rejects a zero delta, which is a caller error either way.
func (h *ProgressHandler) AdjustProgress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input adjustRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.Adjust(c.Request.Context(), userID, input.Delta); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "progress updated"})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solvetrack/internal/service"
	"solvetrack/pkg/response"
)

type StatHandler struct {
	service service.StatService
}

func NewStatHandler(statService service.StatService) *StatHandler {
	return &StatHandler{service: statService}
}

func (h *StatHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

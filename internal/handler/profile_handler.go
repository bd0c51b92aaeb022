package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solvetrack/internal/service"
	"solvetrack/pkg/response"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: profileService}
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	account, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

func (h *ProfileHandler) GetProfileByDisplayName(c *gin.Context) {
	name := c.Param("name")

	account, err := h.service.GetByDisplayName(c.Request.Context(), name)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

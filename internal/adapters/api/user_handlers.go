package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers godoc
// @Summary      List all users
// @Description  Get a list of all users (admin only)
// @Tags         users
// @Produce      json
// @Success      200 {array} auth.User
// @Failure      403 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /users [get]
// @Security     BearerAuth
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

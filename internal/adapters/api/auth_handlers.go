package api

import (
	"net/http"

	"topoplan/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

// Signup godoc
//
//	@Summary		Create an account
//	@Description	The first account becomes administrator
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		auth.Credentials	true	"Username and password"
//	@Success		201		{object}	auth.Session
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.Signup(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Login godoc
//
//	@Summary		Log in
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		auth.Credentials	true	"Username and password"
//	@Success		200		{object}	auth.Session
//	@Failure		401		{object}	map[string]string
//	@Router			/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

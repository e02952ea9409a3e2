package api

import (
	"context"
	"errors"
	"net/http"

	"topoplan/internal/adapters/api/middleware"
	"topoplan/internal/config"
	"topoplan/internal/domain/auth"
	"topoplan/internal/domain/topology"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	_ "topoplan/docs" // swagger docs
)

// TopologyService plans and stores topologies
type TopologyService interface {
	DefaultRequest() topology.PlanRequest
	Preview(ctx context.Context, req topology.PlanRequest) (*topology.Plan, error)
	Create(ctx context.Context, userID, name string, req topology.PlanRequest) (*topology.Record, error)
	List(ctx context.Context, userID string) ([]*topology.Record, error)
	Get(ctx context.Context, id, userID string, admin bool) (*topology.Record, error)
	Provision(ctx context.Context, id, userID string, admin bool, device, endpoint string) (*topology.DeviceConfig, error)
}

// AuthService manages local accounts
type AuthService interface {
	middleware.Authenticator
	Signup(ctx context.Context, creds auth.Credentials) (*auth.Session, error)
	Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error)
	ListUsers(ctx context.Context) ([]*auth.User, error)
}

// Handler handles HTTP requests for the topology API
type Handler struct {
	topologies TopologyService
	auth       AuthService
	authConfig *config.AuthConfig
	wsManager  *WebSocketManager
}

// NewHandler creates a new API handler
func NewHandler(topologies TopologyService, authService AuthService, authConfig *config.AuthConfig) *Handler {
	return &Handler{
		topologies: topologies,
		auth:       authService,
		authConfig: authConfig,
		wsManager:  NewWebSocketManager(),
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine, authMiddleware, requireAdmin gin.HandlerFunc) {
	api := r.Group("/api/v1")
	{
		api.GET("/health", h.Health)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", h.Signup)
			authRoutes.POST("/login", h.Login)
		}

		// The socket authenticates itself (?token= or login action)
		api.GET("/ws", h.HandleWebSocket)

		protected := api.Group("", authMiddleware)
		topologies := protected.Group("/topologies")
		{
			topologies.POST("", h.CreateTopology)
			topologies.POST("/preview", h.PreviewTopology)
			topologies.GET("", h.ListTopologies)
			topologies.GET("/:topologyId", h.GetTopology)
			topologies.POST("/:topologyId/provision", h.ProvisionDevice)
		}
		protected.GET("/users", requireAdmin, h.ListUsers)
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, topology.ErrInvalidInput),
		errors.Is(err, topology.ErrAddressSpaceExhausted),
		errors.Is(err, topology.ErrInsufficientTopologyData),
		errors.Is(err, auth.ErrInvalidName),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, topology.ErrTopologyNotFound),
		errors.Is(err, topology.ErrDeviceNotInTopology):
		return http.StatusNotFound
	case errors.Is(err, topology.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, topology.ErrProvisioningFailed):
		return http.StatusBadGateway
	case errors.Is(err, topology.ErrProvisioningDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg} with its mapped status
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Health godoc
//
//	@Summary		Health check
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateTopologyRequest is the body of a create or preview call.
// Omitted plan fields take the server defaults.
type CreateTopologyRequest struct {
	Name string `json:"topology_name"`
	topology.PlanRequest
}

func (h *Handler) bindPlanRequest(c *gin.Context) (*CreateTopologyRequest, bool) {
	req := &CreateTopologyRequest{PlanRequest: h.topologies.DefaultRequest()}
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return req, true
}

// CreateTopology godoc
//
//	@Summary		Plan and save a topology
//	@Description	Plans a hierarchical topology, verifies its addressing and stores it as the next version of its name
//	@Tags			topologies
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTopologyRequest	true	"Planning request"
//	@Success		201		{object}	topology.Record
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/topologies [post]
//	@Security		BearerAuth
func (h *Handler) CreateTopology(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	req, ok := h.bindPlanRequest(c)
	if !ok {
		return
	}

	record, err := h.topologies.Create(c.Request.Context(), user.ID, req.Name, req.PlanRequest)
	if err != nil {
		respondError(c, err)
		return
	}
	h.wsManager.NotifyTopologyCreated(record)

	c.JSON(http.StatusCreated, record)
}

// PreviewTopology godoc
//
//	@Summary		Plan a topology without saving it
//	@Tags			topologies
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTopologyRequest	true	"Planning request"
//	@Success		200		{object}	topology.Plan
//	@Failure		400		{object}	map[string]string
//	@Router			/topologies/preview [post]
//	@Security		BearerAuth
func (h *Handler) PreviewTopology(c *gin.Context) {
	req, ok := h.bindPlanRequest(c)
	if !ok {
		return
	}

	plan, err := h.topologies.Preview(c.Request.Context(), req.PlanRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ListTopologies godoc
//
//	@Summary		List saved topologies
//	@Description	Returns the caller's topologies, newest first
//	@Tags			topologies
//	@Produce		json
//	@Success		200	{array}		topology.Record
//	@Failure		500	{object}	map[string]string
//	@Router			/topologies [get]
//	@Security		BearerAuth
func (h *Handler) ListTopologies(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	records, err := h.topologies.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetTopology godoc
//
//	@Summary		Get a topology
//	@Tags			topologies
//	@Produce		json
//	@Param			topologyId	path		string	true	"Topology ID"
//	@Success		200			{object}	topology.Record
//	@Failure		403			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/topologies/{topologyId} [get]
//	@Security		BearerAuth
func (h *Handler) GetTopology(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	record, err := h.topologies.Get(c.Request.Context(), c.Param("topologyId"), user.ID, user.IsAdministrator())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ProvisionRequest names the device to configure and where to reach it
type ProvisionRequest struct {
	Device   string `json:"device" binding:"required"`
	Endpoint string `json:"endpoint" binding:"required"`
}

// ProvisionDevice godoc
//
//	@Summary		Push a device configuration
//	@Description	Sends the stored configuration lines of one device over SSH
//	@Tags			topologies
//	@Accept			json
//	@Produce		json
//	@Param			topologyId	path		string				true	"Topology ID"
//	@Param			request		body		ProvisionRequest	true	"Device and endpoint"
//	@Success		200			{object}	topology.DeviceConfig
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		502			{object}	map[string]string
//	@Router			/topologies/{topologyId}/provision [post]
//	@Security		BearerAuth
func (h *Handler) ProvisionDevice(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.topologies.Provision(c.Request.Context(), c.Param("topologyId"), user.ID, user.IsAdministrator(), req.Device, req.Endpoint)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

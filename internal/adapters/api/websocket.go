package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"topoplan/internal/adapters/api/middleware"
	"topoplan/internal/domain/auth"
	"topoplan/internal/domain/topology"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsClient is one open socket. gorilla allows a single concurrent writer.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
	user *auth.User
}

func (cl *wsClient) send(v interface{}) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteJSON(v)
}

// WebSocketManager tracks open sockets per user for push notifications
type WebSocketManager struct {
	connections map[string]map[*wsClient]struct{} // userID -> clients
	mu          sync.RWMutex
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[string]map[*wsClient]struct{}),
	}
}

// Register adds a connection to the manager
func (m *WebSocketManager) Register(userID string, cl *wsClient) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.connections[userID]; !exists {
		m.connections[userID] = make(map[*wsClient]struct{})
	}
	m.connections[userID][cl] = struct{}{}
	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a connection from the manager
func (m *WebSocketManager) Unregister(userID string, cl *wsClient) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if clients, exists := m.connections[userID]; exists {
		delete(clients, cl)
		if len(clients) == 0 {
			delete(m.connections, userID)
		}
	}
	log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
}

// TopologyCreatedEvent is pushed to every socket of the owner after a save
type TopologyCreatedEvent struct {
	Event     string    `json:"event"`
	GraphID   string    `json:"graph_id"`
	Name      string    `json:"topology_name"`
	Version   int       `json:"version"`
	VLANCount int       `json:"vlan_count"`
	CreatedAt time.Time `json:"created_at"`
}

// NotifyTopologyCreated pushes a topology_created event to the owner's sockets
func (m *WebSocketManager) NotifyTopologyCreated(rec *topology.Record) {
	m.mu.RLock()
	clients := make([]*wsClient, 0, len(m.connections[rec.UserID]))
	for cl := range m.connections[rec.UserID] {
		clients = append(clients, cl)
	}
	m.mu.RUnlock()

	event := TopologyCreatedEvent{
		Event:     "topology_created",
		GraphID:   rec.ID,
		Name:      rec.Name,
		Version:   rec.Version,
		VLANCount: rec.VLANCount,
		CreatedAt: rec.CreatedAt,
	}
	for _, cl := range clients {
		if err := cl.send(event); err != nil {
			log.Warn().Err(err).Str("user_id", rec.UserID).Msg("Failed to push topology event")
		}
	}
}

// wsRequest is an inbound socket message. Pointer fields fall back to defaults when absent.
type wsRequest struct {
	Action       string         `json:"action"`
	Username     string         `json:"username"`
	Password     string         `json:"password"`
	NumRouters   *int           `json:"num_routers"`
	NumMLS       *int           `json:"num_mls"`
	NumSwitches  *int           `json:"num_switches"`
	NumComputers *int           `json:"num_computers"`
	Mode         *topology.Mode `json:"mode"`
	IPBase       string         `json:"ip_base"`
	TopologyName string         `json:"topology_name"`
	VLANCount    *int           `json:"vlan_count"`
}

// planRequest overlays the message on the server defaults
func (r wsRequest) planRequest(defaults topology.PlanRequest) topology.PlanRequest {
	req := defaults
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&req.Routers, r.NumRouters)
	set(&req.MultilayerSwitches, r.NumMLS)
	set(&req.Switches, r.NumSwitches)
	set(&req.Computers, r.NumComputers)
	set(&req.VLANCount, r.VLANCount)
	if r.Mode != nil {
		req.Mode = *r.Mode
	}
	if strings.TrimSpace(r.IPBase) != "" {
		req.IPBase = r.IPBase
	}
	return req
}

type wsError struct {
	Error string `json:"error"`
}

// wsSession is the per-socket state of the action protocol
type wsSession struct {
	h      *Handler
	client *wsClient
}

// HandleWebSocket godoc
//
//	@Summary		Topology socket
//	@Description	Action protocol (signup, login, create_graph, get_history) with topology_created pushes. Pass ?token= to authenticate up front.
//	@Tags			topologies
//	@Param			token	query	string	false	"Bearer token"
//	@Router			/ws [get]
func (h *Handler) HandleWebSocket(c *gin.Context) {
	var user *auth.User
	if !h.authConfig.Enabled {
		user = middleware.VirtualAdmin()
	} else if token := c.Query("token"); token != "" {
		u, err := h.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		user = u
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	s := &wsSession{h: h, client: &wsClient{conn: conn}}
	if user != nil {
		s.authenticate(user)
	}
	defer func() {
		if s.client.user != nil {
			h.wsManager.Unregister(s.client.user.ID, s.client)
		}
		_ = conn.Close()
	}()

	log.Info().Bool("authenticated", user != nil).Msg("WebSocket connection established")

	// Requests outlive the upgrade handshake
	ctx := context.WithoutCancel(c.Request.Context())
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Info().Msg("WebSocket connection closed")
			return
		}
		reply := s.dispatch(ctx, message)
		if err := s.client.send(reply); err != nil {
			log.Warn().Err(err).Msg("Failed to write websocket reply")
			return
		}
		if created, ok := reply.(createGraphReply); ok {
			h.wsManager.NotifyTopologyCreated(created.record)
		}
	}
}

func (s *wsSession) authenticate(user *auth.User) {
	if s.client.user != nil {
		s.h.wsManager.Unregister(s.client.user.ID, s.client)
	}
	s.client.user = user
	s.h.wsManager.Register(user.ID, s.client)
}

type sessionReply struct {
	Message string    `json:"message"`
	UserID  string    `json:"user_id"`
	Role    auth.Role `json:"role"`
	Token   string    `json:"token"`
}

type createGraphReply struct {
	Message                string                  `json:"message"`
	GraphID                string                  `json:"graph_id"`
	TopologyName           string                  `json:"topology_name"`
	Version                int                     `json:"version"`
	VLANCount              int                     `json:"vlan_count"`
	AccessGraph            *topology.Graph         `json:"access_graph"`
	TopGraph               *topology.Graph         `json:"top_graph"`
	AccessConfiguration    []topology.DeviceConfig `json:"access_configuration"`
	TopLayerConfigurations []topology.DeviceConfig `json:"top_layer_configurations"`

	record *topology.Record
}

func (s *wsSession) dispatch(ctx context.Context, message []byte) interface{} {
	var req wsRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return wsError{Error: "Invalid request: " + err.Error()}
	}

	switch req.Action {
	case "signup", "login":
		if req.Username == "" || req.Password == "" {
			return wsError{Error: "Missing action, username, or password."}
		}
		creds := auth.Credentials{Username: req.Username, Password: req.Password}
		call, msg := s.h.auth.Signup, "User created successfully."
		if req.Action == "login" {
			call, msg = s.h.auth.Login, "Login successful."
		}
		session, err := call(ctx, creds)
		if err != nil {
			return wsError{Error: err.Error()}
		}
		s.authenticate(&auth.User{ID: session.UserID, Username: session.Username, Role: session.Role})
		return sessionReply{Message: msg, UserID: session.UserID, Role: session.Role, Token: session.Token}

	case "create_graph":
		if s.client.user == nil {
			return wsError{Error: "Authentication required."}
		}
		planReq := req.planRequest(s.h.topologies.DefaultRequest())
		record, err := s.h.topologies.Create(ctx, s.client.user.ID, req.TopologyName, planReq)
		if err != nil {
			return wsError{Error: err.Error()}
		}
		return createGraphReply{
			Message:                "Graph created and saved.",
			GraphID:                record.ID,
			TopologyName:           record.Name,
			Version:                record.Version,
			VLANCount:              record.VLANCount,
			AccessGraph:            record.AccessGraph,
			TopGraph:               record.HierarchyGraph,
			AccessConfiguration:    record.AccessConfigs,
			TopLayerConfigurations: record.HierarchyConfigs,
			record:                 record,
		}

	case "get_history":
		if s.client.user == nil {
			return wsError{Error: "Authentication required."}
		}
		records, err := s.h.topologies.List(ctx, s.client.user.ID)
		if err != nil {
			return wsError{Error: err.Error()}
		}
		return gin.H{"graphs": records}

	default:
		return wsError{Error: "Unknown action."}
	}
}

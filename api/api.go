// Package api exposes the wallet session over HTTP. It is a thin
// presentation adapter: every handler reads a session snapshot or forwards a
// user intent to the controller, and nothing here touches the record
// directly.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/davidngn/walletcard/networks"
	"github.com/davidngn/walletcard/session"
)

type APIService struct {
	address string
	ctl     *session.Controller
}

func NewAPIService(address string, ctl *session.Controller) *APIService {
	return &APIService{
		address: address,
		ctl:     ctl,
	}
}

// sessionResponse is the wire form of a session snapshot, enriched with the
// resolved network name so clients don't need their own chain table.
type sessionResponse struct {
	session.Session
	ChainName string `json:"chain_name,omitempty"`
	Installed bool   `json:"installed"`
}

type switchRequest struct {
	Network string `json:"network"`
	ChainID string `json:"chain_id"`
}

// Router builds the gin engine. Split from Serve so tests can drive it with
// httptest.
func (api *APIService) Router() *gin.Engine {
	r := gin.Default()
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	apiv1 := r.Group("/v1")

	apiv1.GET("/session", api.GetSession)
	apiv1.GET("/installed", api.GetInstalled)
	apiv1.POST("/connect", api.Connect)
	apiv1.POST("/disconnect", api.Disconnect)
	apiv1.POST("/switch-network", api.SwitchNetwork)

	return r
}

func (api *APIService) Serve() error {
	return api.Router().Run(api.address)
}

func (api *APIService) snapshot() sessionResponse {
	s := api.ctl.Snapshot()
	return sessionResponse{
		Session:   s,
		ChainName: networks.DisplayName(s.ChainID),
		Installed: api.ctl.Installed(),
	}
}

func (api *APIService) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, api.snapshot())
}

func (api *APIService) GetInstalled(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"installed": api.ctl.Installed()})
}

func (api *APIService) Connect(c *gin.Context) {
	api.ctl.Connect(c.Request.Context())
	c.JSON(http.StatusOK, api.snapshot())
}

func (api *APIService) Disconnect(c *gin.Context) {
	api.ctl.Disconnect()
	c.JSON(http.StatusOK, api.snapshot())
}

// SwitchNetwork accepts either a network name or a 0x-hex chain id. Name
// resolution happens here so the controller only ever sees chain ids; an
// unknown name comes back with close-match suggestions.
func (api *APIService) SwitchNetwork(c *gin.Context) {
	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	chainID := req.ChainID
	if chainID == "" && req.Network != "" {
		n, err := networks.GetNetwork(req.Network)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       "unknown network name",
				"suggestions": networks.SuggestNetworks(req.Network),
			})
			return
		}
		chainID = n.ChainIDHex()
	}
	if chainID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "network or chain_id is required"})
		return
	}

	api.ctl.SwitchNetwork(c.Request.Context(), chainID)
	c.JSON(http.StatusOK, api.snapshot())
}

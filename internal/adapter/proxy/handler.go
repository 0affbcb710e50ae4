// Package proxy implements the gateway that authenticates callers,
// validates requested actions against an allow-list, injects provider
// credentials, and forwards to the correct upstream base URL. Successful
// upstream JSON passes through unmodified; upstream failures are logged in
// detail server-side and surfaced to callers as generic messages only.
package proxy

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fundbench/fundbench-backend/internal/config"
)

// Request is the single envelope every proxy call uses. Which extra fields
// matter depends on the action.
type Request struct {
	Action     string `json:"action" binding:"required"`
	PBID       string `json:"pbId"`
	HarmonicID string `json:"harmonicId"`
	Domain     string `json:"domain"`
	UseSandbox bool   `json:"useSandbox"`
}

var validActions = map[string]bool{
	"pb_company":      true,
	"pb_deals":        true,
	"pb_deal_details": true,
	"pb_credits":      true,
	"h_search":        true,
	"h_company":       true,
	"verify_password": true,
}

var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Handler serves the proxy endpoint
type Handler struct {
	cfg    *config.Config
	log    *logrus.Logger
	client *http.Client
}

// NewHandler creates a new Handler instance
func NewHandler(cfg *config.Config, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetupRouter configures and returns a gin engine for the gateway
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(h.cfg.Server.AllowedOrigins))

	authorized := r.Group("/")
	authorized.Use(AuthMiddleware(h.cfg.Server.AppPassword))
	authorized.POST("/proxy", h.Proxy)

	return r
}

// Proxy handles one envelope: validate, inject credentials, forward,
// pass the upstream JSON back verbatim.
func (h *Handler) Proxy(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, ErrInvalidInput)
		return
	}

	action := strings.TrimSpace(req.Action)
	if len(action) > 50 || !validActions[action] {
		h.respondError(c, ErrInvalidAction)
		return
	}

	// password already checked by the middleware; nothing upstream to do
	if action == "verify_password" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(action, "pb_") {
		body, err = h.pitchbook(c, action, &req)
	} else {
		body, err = h.harmonic(c, action, &req)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

func (h *Handler) pitchbook(c *gin.Context, action string, req *Request) ([]byte, error) {
	apiKey := h.cfg.PitchBook.APIKeyLive
	if req.UseSandbox {
		apiKey = h.cfg.PitchBook.APIKeySandbox
	}
	if apiKey == "" {
		return nil, ErrKeyNotConfigured
	}

	pbID := ""
	if action != "pb_credits" {
		var err error
		pbID, err = validateID(req.PBID)
		if err != nil {
			return nil, err
		}
	}

	base := h.cfg.PitchBook.BaseURL
	var target string
	switch action {
	case "pb_company":
		target = base + "/companies/" + url.PathEscape(pbID) + "/bio"
	case "pb_deals":
		target = base + "/companies/" + url.PathEscape(pbID) + "/deals"
	case "pb_deal_details":
		target = base + "/deals/" + url.PathEscape(pbID) + "/detailed"
	case "pb_credits":
		target = base + "/credits/history"
	}

	headers := map[string]string{
		"Authorization": "PB-Token " + apiKey,
		"Accept":        "application/json",
	}
	return h.fetchJSON(c, http.MethodGet, target, headers, ErrUpstream)
}

func (h *Handler) harmonic(c *gin.Context, action string, req *Request) ([]byte, error) {
	apiKey := h.cfg.Harmonic.APIKey
	if apiKey == "" {
		return nil, ErrKeyNotConfigured
	}

	headers := map[string]string{
		"apikey":       apiKey,
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
	base := h.cfg.Harmonic.BaseURL

	switch action {
	case "h_search":
		domain, err := validateDomain(req.Domain)
		if err != nil {
			return nil, err
		}
		target := base + "/companies?website_domain=" + url.QueryEscape(domain)
		body, err := h.fetchJSON(c, http.MethodPost, target, headers, ErrSearchFailed)
		if err != nil {
			return nil, err
		}
		// the search endpoint returns a single record; wrap it so callers
		// always see a result list
		wrapped := append([]byte(`{"results":[`), body...)
		return append(wrapped, []byte(`]}`)...), nil
	default: // h_company
		harmonicID, err := validateID(req.HarmonicID)
		if err != nil {
			return nil, err
		}
		target := base + "/companies/" + url.PathEscape(harmonicID)
		return h.fetchJSON(c, http.MethodGet, target, headers, ErrUpstream)
	}
}

// validateID checks id shape before it reaches an upstream URL
func validateID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > 100 {
		return "", ErrInvalidInput
	}
	return id, nil
}

// validateDomain checks that a search argument is a plausible bare hostname
func validateDomain(raw string) (string, error) {
	domain := strings.TrimSpace(raw)
	if domain == "" || len(domain) > 253 || !domainPattern.MatchString(domain) {
		return "", ErrInvalidDomain
	}
	return domain, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, msg := mapError(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("proxy request failed")
	}
	c.JSON(status, gin.H{"error": msg})
}

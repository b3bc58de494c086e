package http

import (
	"net/http"
	"strings"

	"github.com/redmonkez12/plantopia/internal/httputil"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/session"
)

const defaultLanding = "/dashboard"

// PageHandler serves the JSON view models of pages that span several features
type PageHandler struct {
	profiles *profile.Service
	plants   *plant.Service
}

func NewPageHandler(profiles *profile.Service, plants *plant.Service) *PageHandler {
	return &PageHandler{
		profiles: profiles,
		plants:   plants,
	}
}

// DashboardResponse is the dashboard view model
type DashboardResponse struct {
	Page            string           `json:"page"`
	Profile         *profile.Profile `json:"profile"`
	Plants          []plant.Plant    `json:"plants"`
	TotalPlants     int              `json:"totalPlants"`
	NeedsWaterCount int              `json:"needsWaterCount"`
	NeedsWaterIDs   []string         `json:"needsWaterPlantIds"`
}

// Home returns basic app information
// @Summary      App info
// @Tags         pages
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{
		"name":      "Plantopia",
		"login":     "/login",
		"dashboard": defaultLanding,
	}, http.StatusOK)
}

// Login returns the sign-in view model. The guard has already redirected
// visitors with a valid session.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{
		"page": "login",
		"from": safeReturnPath(r.URL.Query().Get("from")),
	}, http.StatusOK)
}

// Dashboard returns the profile, the plants and the watering counters
// @Summary      Dashboard
// @Tags         pages
// @Produce      json
// @Success      200 {object} DashboardResponse
// @Failure      503 {object} httputil.ErrorResponse
// @Router       /dashboard [get]
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	uid := session.UserIDFromContext(r.Context())

	p, err := h.profiles.Get(r.Context(), uid)
	if err != nil {
		if httputil.RespondStoreError(w, err) {
			logger.Error("failed to load dashboard profile", "error", err.Error())
		}
		return
	}

	plants, err := h.plants.List(r.Context(), uid)
	if err != nil {
		if httputil.RespondStoreError(w, err) {
			logger.Error("failed to load dashboard plants", "error", err.Error())
		}
		return
	}

	list := plant.NewPlantsResponse(plants, h.plants.Now())
	httputil.RespondJSON(w, DashboardResponse{
		Page:            "dashboard",
		Profile:         p,
		Plants:          list.Plants,
		TotalPlants:     len(list.Plants),
		NeedsWaterCount: list.NeedsWaterCount,
		NeedsWaterIDs:   list.NeedsWaterPlants,
	}, http.StatusOK)
}

// safeReturnPath only echoes same-origin paths
func safeReturnPath(from string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.Contains(from, `\`) {
		return defaultLanding
	}
	return from
}

package geocode

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/redmonkez12/plantopia/internal/httputil"
	"github.com/redmonkez12/plantopia/internal/logging"
)

// Reverser is the part of Client the handler needs
type Reverser interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

type Handler struct {
	geocoder Reverser
}

func NewHandler(geocoder Reverser) *Handler {
	return &Handler{geocoder: geocoder}
}

// LocationResponse is the detected location label
type LocationResponse struct {
	Location string `json:"location"`
}

// Reverse resolves coordinates to a location label for the onboarding form
// @Summary      Reverse geocode
// @Tags         geocode
// @Security     BearerAuth
// @Produce      json
// @Param        lat query number true "Latitude"
// @Param        lon query number true "Longitude"
// @Success      200 {object} LocationResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      503 {object} httputil.ErrorResponse
// @Router       /api/geocode/reverse [get]
func (h *Handler) Reverse(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil || !ValidCoordinates(lat, lon) {
		httputil.RespondErrorWithCode(w, "lat and lon must be valid coordinates", httputil.CodeInvalidCoordinates, http.StatusBadRequest)
		return
	}

	location, err := h.geocoder.Reverse(r.Context(), lat, lon)
	switch {
	case err == nil:
		httputil.RespondJSON(w, LocationResponse{Location: location}, http.StatusOK)
	case errors.Is(err, ErrNoResult):
		httputil.RespondErrorWithCode(w, "no place found for these coordinates", httputil.CodeGeocodeNoResult, http.StatusNotFound)
	default:
		if !errors.Is(err, ErrDisabled) {
			logger.Error("reverse geocoding failed", "error", err.Error())
		}
		httputil.RespondErrorWithCode(w, "location detection is unavailable", httputil.CodeGeocodeUnavailable, http.StatusServiceUnavailable)
	}
}

package profile

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/redmonkez12/plantopia/internal/httputil"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/session"
)

// Handler contains HTTP handlers for profile and onboarding endpoints
type Handler struct {
	service *Service
	cookies *session.Cookies
}

func NewHandler(service *Service, cookies *session.Cookies) *Handler {
	return &Handler{
		service: service,
		cookies: cookies,
	}
}

// GetProfile returns the signed-in user's profile
// @Summary      Get profile
// @Tags         profile
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} Profile
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	p, err := h.service.Get(r.Context(), session.UserIDFromContext(r.Context()))
	if err != nil {
		if httputil.RespondStoreError(w, err) {
			logger.Error("failed to get profile", "error", err.Error())
		}
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// UpdateProfile merges a partial update into the profile and refreshes the hint cookie
// @Summary      Update profile
// @Tags         profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body Patch true "Fields to change"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      503 {object} httputil.ErrorResponse
// @Router       /api/profile [patch]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var patch Patch
	if err := httputil.DecodeJSON(w, r, &patch); err != nil {
		logger.Warn("invalid profile patch body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	p, err := h.service.Update(r.Context(), session.UserIDFromContext(r.Context()), patch)
	if err != nil {
		if httputil.RespondStoreError(w, err) {
			logger.Error("failed to update profile", "error", err.Error())
		}
		return
	}

	h.refreshHint(w, r, p)
	httputil.RespondJSON(w, p, http.StatusOK)
}

// CompleteOnboarding stores the onboarding answers
// @Summary      Complete onboarding
// @Tags         profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body OnboardingInput true "Onboarding answers"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      503 {object} httputil.ErrorResponse
// @Router       /api/onboarding [post]
func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var in OnboardingInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		if errors.Is(err, io.EOF) {
			httputil.RespondErrorWithCode(w, "request body is required", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
			return
		}
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	p, err := h.service.CompleteOnboarding(r.Context(), session.UserIDFromContext(r.Context()), in)
	if err != nil {
		if httputil.RespondStoreError(w, err) {
			logger.Error("failed to complete onboarding", "error", err.Error())
		}
		return
	}

	h.refreshHint(w, r, p)
	httputil.RespondJSON(w, p, http.StatusOK)
}

// OnboardingPage returns the view model for /onboarding
func (h *Handler) OnboardingPage(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	p, err := h.service.Get(r.Context(), session.UserIDFromContext(r.Context()))
	if err != nil {
		if httputil.RespondStoreError(w, err) {
			logger.Error("failed to load onboarding page", "error", err.Error())
		}
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"page":             "onboarding",
		"profile":          p,
		"experienceLevels": []ExperienceLevel{ExperienceBeginner, ExperienceIntermediate, ExperienceExpert},
	}, http.StatusOK)
}

// refreshHint rewrites the profile hint cookie for the remaining session lifetime
func (h *Handler) refreshHint(w http.ResponseWriter, r *http.Request, p *Profile) {
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		return
	}

	remaining := time.Until(claims.ExpiresAt)
	if remaining <= 0 {
		return
	}

	if err := h.cookies.SetProfileHint(w, p.Hint(), remaining); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("failed to refresh profile hint", "error", err.Error())
	}
}

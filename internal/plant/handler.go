package plant

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/plantopia/internal/httputil"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/photo"
	"github.com/redmonkez12/plantopia/internal/session"
)

const (
	// multipartOverhead is allowed on top of the photo limit for the form itself
	multipartOverhead = 1 << 20

	plantFormField = "plant"
	photoFormField = "photo"
)

// Handler contains HTTP handlers for plant endpoints and plant pages
type Handler struct {
	service       *Service
	maxPhotoBytes int64
}

func NewHandler(service *Service, maxPhotoBytes int64) *Handler {
	return &Handler{
		service:       service,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// PlantsResponse is the plant list with its needs-water counter
type PlantsResponse struct {
	Plants           []Plant  `json:"plants"`
	NeedsWaterCount  int      `json:"needsWaterCount"`
	NeedsWaterPlants []string `json:"needsWaterPlantIds"`
}

// NewPlantsResponse builds the list view for now
func NewPlantsResponse(plants []Plant, now time.Time) PlantsResponse {
	resp := PlantsResponse{Plants: plants, NeedsWaterPlants: []string{}}
	if resp.Plants == nil {
		resp.Plants = []Plant{}
	}
	for i := range plants {
		if plants[i].NeedsWater(now) {
			resp.NeedsWaterCount++
			resp.NeedsWaterPlants = append(resp.NeedsWaterPlants, plants[i].ID)
		}
	}
	return resp
}

// List returns the caller's plants
// @Summary      List plants
// @Tags         plants
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} PlantsResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      503 {object} httputil.ErrorResponse
// @Router       /api/plants [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	plants, err := h.service.List(r.Context(), session.UserIDFromContext(r.Context()))
	if err != nil {
		h.respondError(w, r, "failed to list plants", err)
		return
	}

	httputil.RespondJSON(w, NewPlantsResponse(plants, h.service.Now()), http.StatusOK)
}

// Get returns one plant
// @Summary      Get plant
// @Tags         plants
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Plant ID"
// @Success      200 {object} Plant
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/plants/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), session.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, "failed to get plant", err)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// Create adds a plant. Accepts JSON, or multipart/form-data with a "plant"
// JSON field and an optional "photo" file.
// @Summary      Add plant
// @Tags         plants
// @Security     BearerAuth
// @Accept       json,mpfd
// @Produce      json
// @Param        request body Input true "Plant"
// @Success      201 {object} Plant
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      413 {object} httputil.ErrorResponse
// @Failure      503 {object} httputil.ErrorResponse
// @Router       /api/plants [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	upload, cleanup, err := h.decode(w, r, &in)
	if err != nil {
		h.respondDecodeError(w, r, err)
		return
	}
	defer cleanup()

	p, err := h.service.Add(r.Context(), session.UserIDFromContext(r.Context()), in, upload)
	if err != nil {
		h.respondError(w, r, "failed to add plant", err)
		return
	}

	httputil.RespondJSON(w, p, http.StatusCreated)
}

// Update applies a partial update. Accepts JSON or multipart like Create.
// @Summary      Update plant
// @Tags         plants
// @Security     BearerAuth
// @Accept       json,mpfd
// @Produce      json
// @Param        id path string true "Plant ID"
// @Param        request body Patch true "Fields to change"
// @Success      200 {object} Plant
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/plants/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	upload, cleanup, err := h.decode(w, r, &patch)
	if err != nil {
		h.respondDecodeError(w, r, err)
		return
	}
	defer cleanup()

	p, err := h.service.Update(r.Context(), session.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), patch, upload)
	if err != nil {
		h.respondError(w, r, "failed to update plant", err)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// Delete removes a plant. Responds 204 whether or not it existed.
// @Summary      Delete plant
// @Tags         plants
// @Security     BearerAuth
// @Param        id path string true "Plant ID"
// @Success      204
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /api/plants/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), session.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, "failed to delete plant", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Water sets the plant's last watered date to now
// @Summary      Mark plant watered
// @Tags         plants
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Plant ID"
// @Success      200 {object} Plant
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/plants/{id}/water [post]
func (h *Handler) Water(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.TouchWatering(r.Context(), session.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, "failed to update watering date", err)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// Stream pushes a full snapshot of the caller's plants as a server-sent event
// whenever the collection changes
// @Summary      Stream plants
// @Tags         plants
// @Security     BearerAuth
// @Produce      text/event-stream
// @Success      200 {array} Plant
// @Router       /api/plants/stream [get]
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	ctx := r.Context()

	sub, err := h.service.Subscribe(ctx, session.UserIDFromContext(ctx))
	if err != nil {
		h.respondError(w, r, "failed to subscribe to plants", err)
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("write deadline not supported", "error", err.Error())
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.Error("streaming not supported", "error", err.Error())
		return
	}

	for {
		plants, err := sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrSubscriptionClosed) {
				return
			}
			logger.Error("plant subscription failed", "error", err.Error())
			writeEvent(w, "error", httputil.ErrorResponse{Error: "operation failed, check connectivity", Code: httputil.CodeOperationFailed})
			_ = rc.Flush()
			return
		}

		if err := writeEvent(w, "", plants); err != nil {
			logger.Debug("stream client gone", "error", err.Error())
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w io.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// PlantsPage returns the view model for /plants
func (h *Handler) PlantsPage(w http.ResponseWriter, r *http.Request) {
	plants, err := h.service.List(r.Context(), session.UserIDFromContext(r.Context()))
	if err != nil {
		h.respondError(w, r, "failed to load plants page", err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"page":   "plants",
		"plants": NewPlantsResponse(plants, h.service.Now()),
	}, http.StatusOK)
}

// AddPage returns the view model for /plants/add
func (h *Handler) AddPage(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, formOptions("plants/add", nil), http.StatusOK)
}

// EditPage returns the view model for /plants/edit/{id}
func (h *Handler) EditPage(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), session.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, "failed to load edit page", err)
		return
	}

	httputil.RespondJSON(w, formOptions("plants/edit", p), http.StatusOK)
}

func formOptions(page string, p *Plant) map[string]any {
	return map[string]any{
		"page":           page,
		"plant":          p,
		"locations":      []Location{LocationIndoor, LocationOutdoor},
		"healthStatuses": []HealthStatus{HealthHealthy, HealthNeedsAttention, HealthSick},
	}
}

var errMissingPlantField = errors.New(`multipart body must carry a "plant" field`)

// decode reads a JSON body, or a multipart form with a JSON "plant" field and
// an optional "photo" file. cleanup releases multipart temp files.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) (*photo.Upload, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return nil, noop, httputil.DecodeJSON(w, r, v)
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		return nil, noop, err
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	raw := r.FormValue(plantFormField)
	if raw == "" {
		cleanup()
		return nil, noop, errMissingPlantField
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		cleanup()
		return nil, noop, err
	}

	file, header, err := r.FormFile(photoFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return nil, noop, err
	}

	return &photo.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close(); cleanup() }, nil
}

func (h *Handler) respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	logging.GetLoggerFromContext(r.Context()).Warn("invalid plant request body", "error", err.Error())

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httputil.RespondErrorWithCode(w, "photo exceeds the maximum upload size", httputil.CodePhotoTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, photo.ErrTooLarge):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePhotoTooLarge, http.StatusRequestEntityTooLarge)
	case errors.Is(err, photo.ErrUnsupportedType):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePhotoUnsupported, http.StatusUnsupportedMediaType)
	case errors.Is(err, photo.ErrUnavailable):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodePhotoUnavailable, http.StatusServiceUnavailable)
	default:
		if httputil.RespondStoreError(w, err) {
			logging.GetLoggerFromContext(r.Context()).Error(msg, "error", err.Error())
		}
	}
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"starmap-server/internal/galaxy"
	"starmap-server/internal/middleware"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
	"starmap-server/internal/worldgen"
)

// maxBodyBytes bounds request bodies; rule lists are small.
const maxBodyBytes = 1 << 20

type GalaxyHandler struct {
	service *galaxy.Service
	logger  *slog.Logger
}

func NewGalaxyHandler(service *galaxy.Service, logger *slog.Logger) *GalaxyHandler {
	return &GalaxyHandler{
		service: service,
		logger:  logger,
	}
}

func (h *GalaxyHandler) decode(w http.ResponseWriter, r *http.Request) (galaxy.GenerateRequest, error) {
	var req galaxy.GenerateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.GetType(err) == errors.ErrorTypeValidation {
			return req, err
		}
		return req, errors.WrapValidation("invalid request body", err)
	}
	return req, nil
}

// Generate handles POST /api/galaxies/generate
func (h *GalaxyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "generate_galaxy")

	req, err := h.decode(w, r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	res, err := h.service.Generate(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.Header().Set("X-Galaxy-Digest", res.Digest)
	w.Header().Set("X-Cache", cacheHeader(res.Cached))
	response.Success(w, http.StatusOK, res.Body)
}

// Create handles POST /api/galaxies
func (h *GalaxyHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "create_galaxy")

	claims := middleware.GetClaimsFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	req, err := h.decode(w, r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	rec, err := h.service.Persist(r.Context(), req, claims.Subject)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger.Info("Galaxy persisted", "galaxy_id", rec.ID, "owner", rec.CreatedBy)
	response.Success(w, http.StatusCreated, rec)
}

// Get handles GET /api/galaxies/{id}
func (h *GalaxyHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_galaxy", "galaxy_id", r.PathValue("id"))

	rec, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	response.Success(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/galaxies/{id}
func (h *GalaxyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "delete_galaxy", "galaxy_id", r.PathValue("id"))

	claims := middleware.GetClaimsFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Delete(r.Context(), r.PathValue("id"), claims.Subject); err != nil {
		response.Error(w, r, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Star handles GET /api/stars/{seed}
func (h *GalaxyHandler) Star(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_star")

	req, err := parseStarRequest(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	star, err := h.service.DeriveStar(req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	response.Success(w, http.StatusOK, star)
}

func parseStarRequest(r *http.Request) (galaxy.StarRequest, error) {
	var req galaxy.StarRequest

	seed, err := strconv.ParseInt(r.PathValue("seed"), 10, 32)
	if err != nil {
		return req, errors.WrapValidation("invalid seed", err)
	}
	req.Seed = int32(seed)
	req.Spectr = worldgen.SpectrX

	q := r.URL.Query()
	if v := q.Get("index"); v != "" {
		if req.Index, err = strconv.Atoi(v); err != nil {
			return req, errors.WrapValidation("invalid index", err)
		}
	}
	if v := q.Get("star_count"); v != "" {
		if req.StarCount, err = strconv.Atoi(v); err != nil {
			return req, errors.WrapValidation("invalid star_count", err)
		}
	}
	if v := q.Get("type"); v != "" {
		if req.Type, err = worldgen.ParseStarType(v); err != nil {
			return req, errors.WrapValidation("invalid type", err)
		}
	}
	if v := q.Get("spectr"); v != "" {
		if req.Spectr, err = worldgen.ParseSpectrType(v); err != nil {
			return req, errors.WrapValidation("invalid spectr", err)
		}
	}
	return req, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

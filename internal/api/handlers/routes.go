package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"route-catalog-service/internal/api/dto"
	"route-catalog-service/internal/domain"
	"route-catalog-service/internal/platform/db"
	"route-catalog-service/internal/ports"
	"route-catalog-service/internal/services"
)

// RouteHandler exposes catalog CRUD, search and aggregate endpoints.
type RouteHandler struct {
	Repo     ports.RouteRepository
	Notifier ports.ChangeNotifier
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	page := intQuery(r, "page", 0)
	size := intQuery(r, "size", 10)
	if page < 0 || size < 1 || size > 100 {
		writeError(w, r, http.StatusBadRequest, "page must be >= 0 and size between 1 and 100")
		return
	}

	routes, err := h.Repo.List(r.Context(), page, size)
	if err != nil {
		log.Printf("list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	total, err := h.Repo.Count(r.Context())
	if err != nil {
		log.Printf("count routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	w.Header().Set("X-Page", strconv.Itoa(page))
	w.Header().Set("X-Size", strconv.Itoa(size))
	writeJSON(w, r, http.StatusOK, dto.FromRoutes(routes))
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	route, err := h.Repo.FindByID(r.Context(), id)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRoute(route))
}

func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	route, ok := decodeRoute(w, r)
	if !ok {
		return
	}

	saved, err := services.CreateRoute(r.Context(), h.Repo, h.Notifier, route)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+strconv.FormatInt(saved.ID, 10))
	writeJSON(w, r, http.StatusCreated, dto.FromRoute(saved))
}

func (h *RouteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	route, ok := decodeRoute(w, r)
	if !ok {
		return
	}

	saved, err := services.UpdateRoute(r.Context(), h.Repo, h.Notifier, id, route)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRoute(saved))
}

func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := services.DeleteRoute(r.Context(), h.Repo, h.Notifier, id); err != nil {
		writeRouteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RouteHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	routes, err := h.Repo.SearchByName(r.Context(), name)
	if err != nil {
		log.Printf("search routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRoutes(routes))
}

func (h *RouteHandler) DeleteByRating(w http.ResponseWriter, r *http.Request) {
	rating, ok := pathID(w, r, "rating")
	if !ok {
		return
	}

	deleted, err := services.DeleteRouteByRating(r.Context(), h.Repo, h.Notifier, rating)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, r, http.StatusNotFound, "no route found with rating "+strconv.FormatInt(rating, 10))
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *RouteHandler) CountByRating(w http.ResponseWriter, r *http.Request) {
	rating, err := strconv.ParseInt(r.URL.Query().Get("rating"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "rating must be an integer")
		return
	}

	count, err := h.Repo.CountByRatingGreaterThan(r.Context(), rating)
	if err != nil {
		log.Printf("count routes by rating failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]int64{"count": count})
}

func (h *RouteHandler) DistinctRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.Repo.DistinctRatings(r.Context())
	if err != nil {
		log.Printf("distinct ratings failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string][]int64{"ratings": ratings})
}

func (h *RouteHandler) Shortest(w http.ResponseWriter, r *http.Request) {
	h.findByDistance(w, r, h.Repo.FindShortestBetween)
}

func (h *RouteHandler) Longest(w http.ResponseWriter, r *http.Request) {
	h.findByDistance(w, r, h.Repo.FindLongestBetween)
}

func (h *RouteHandler) findByDistance(w http.ResponseWriter, r *http.Request, find func(ctx context.Context, from, to string) (*domain.Route, error)) {
	from, to, ok := locationPair(w, r)
	if !ok {
		return
	}

	route, err := find(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrRouteNotFound) {
			writeError(w, r, http.StatusNotFound, "no route found between "+from+" and "+to)
			return
		}
		log.Printf("find route between failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRoute(route))
}

func (h *RouteHandler) Between(w http.ResponseWriter, r *http.Request) {
	from, to, ok := locationPair(w, r)
	if !ok {
		return
	}

	routes, err := h.Repo.FindBetween(r.Context(), from, to)
	if err != nil {
		log.Printf("find routes between failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRoutes(routes))
}

func locationPair(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "from and to are required")
		return "", "", false
	}
	return from, to, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return id, true
}

func intQuery(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func decodeRoute(w http.ResponseWriter, r *http.Request) (*domain.Route, bool) {
	var req dto.RouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return nil, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return nil, false
	}

	route, err := req.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return route, true
}

// writeRouteError maps the write path's error taxonomy onto status codes.
func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRoute):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRouteNotFound):
		writeError(w, r, http.StatusNotFound, "route not found")
	case errors.Is(err, domain.ErrNameExists):
		writeError(w, r, http.StatusConflict, "route name already exists")
	case errors.Is(err, db.ErrTxRetriesExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "write conflict, retry later")
	default:
		log.Printf("route operation failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

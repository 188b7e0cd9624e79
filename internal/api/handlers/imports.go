package handlers

import (
	"errors"
	"log"
	"net/http"

	"route-catalog-service/internal/adapters/importxml"
	"route-catalog-service/internal/api/dto"
	"route-catalog-service/internal/domain"
	"route-catalog-service/internal/platform/db"
	"route-catalog-service/internal/ports"
	"route-catalog-service/internal/services"
)

// ImportHandler exposes bulk XML import and the import audit history.
type ImportHandler struct {
	Repo     ports.RouteRepository
	Log      ports.ImportLog
	Notifier ports.ChangeNotifier
}

func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	res, err := services.ImportRoutes(r.Context(), h.Repo, h.Log, h.Notifier, r.Body, actorFrom(r))
	if err != nil {
		switch {
		case errors.Is(err, importxml.ErrBadDocument), errors.Is(err, domain.ErrInvalidRoute):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNameExists):
			writeError(w, r, http.StatusConflict, "route name already exists")
		case errors.Is(err, db.ErrTxRetriesExceeded):
			writeError(w, r, http.StatusServiceUnavailable, "write conflict, retry later")
		default:
			log.Printf("import routes failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ImportResponse{HistoryID: res.HistoryID, Added: res.Added})
}

func (h *ImportHandler) History(w http.ResponseWriter, r *http.Request) {
	ops, err := h.Log.FindByActor(r.Context(), actorFrom(r))
	if err != nil {
		log.Printf("import history failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromImportOperations(ops))
}

func actorFrom(r *http.Request) string {
	if user := r.Header.Get("X-User"); user != "" {
		return user
	}
	return domain.AnonymousActor
}

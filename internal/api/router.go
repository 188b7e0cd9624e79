package api

import (
	"net/http"

	"route-catalog-service/internal/adapters/ws"
	"route-catalog-service/internal/api/handlers"
	"route-catalog-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.RouteRepository, importLog ports.ImportLog, hub *ws.Hub, allowedOrigin string) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Repo: repo, Notifier: hub}
	importHandler := &handlers.ImportHandler{Repo: repo, Log: importLog, Notifier: hub}
	wsHandler := &handlers.WSHandler{Hub: hub}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("GET /routes", routeHandler.List)
	mux.HandleFunc("POST /routes", routeHandler.Create)
	mux.HandleFunc("GET /routes/search", routeHandler.Search)
	mux.HandleFunc("GET /routes/count-by-rating", routeHandler.CountByRating)
	mux.HandleFunc("GET /routes/distinct-ratings", routeHandler.DistinctRatings)
	mux.HandleFunc("GET /routes/shortest", routeHandler.Shortest)
	mux.HandleFunc("GET /routes/longest", routeHandler.Longest)
	mux.HandleFunc("GET /routes/between", routeHandler.Between)
	mux.HandleFunc("DELETE /routes/by-rating/{rating}", routeHandler.DeleteByRating)
	mux.HandleFunc("GET /routes/{id}", routeHandler.Get)
	mux.HandleFunc("PUT /routes/{id}", routeHandler.Update)
	mux.HandleFunc("DELETE /routes/{id}", routeHandler.Delete)

	mux.HandleFunc("POST /imports/routes", importHandler.Import)
	mux.HandleFunc("GET /imports", importHandler.History)

	mux.HandleFunc("GET /ws/routes", wsHandler.Subscribe)

	return requestIDMiddleware(loggingMiddleware(corsMiddleware(allowedOrigin, mux)))
}

package dto

import (
	"fmt"
	"time"

	"route-catalog-service/internal/domain"
)

type CoordinatesPayload struct {
	X *float64 `json:"x"`
	Y *float32 `json:"y"`
}

type LocationPayload struct {
	X    *int64  `json:"x"`
	Y    *int32  `json:"y"`
	Name *string `json:"name"`
}

// Inbound shape for create and update. Pointer fields so missing keys are
// reported by name instead of silently defaulting.
type RouteRequest struct {
	Name        *string             `json:"name"`
	Coordinates *CoordinatesPayload `json:"coordinates"`
	From        *LocationPayload    `json:"from"`
	To          *LocationPayload    `json:"to"`
	Distance    *int                `json:"distance"`
	Rating      *int64              `json:"rating"`
}

// ToDomain maps the request to a domain route, rejecting absent required
// fields. Full invariant checks stay with domain.Route.Validate.
func (r *RouteRequest) ToDomain() (*domain.Route, error) {
	for field, present := range map[string]bool{
		"name":        r.Name != nil,
		"coordinates": r.Coordinates != nil,
		"from":        r.From != nil,
		"distance":    r.Distance != nil,
		"rating":      r.Rating != nil,
	} {
		if !present {
			return nil, fmt.Errorf("%s is required", field)
		}
	}
	if r.Coordinates.X == nil || r.Coordinates.Y == nil {
		return nil, fmt.Errorf("coordinates.x and coordinates.y are required")
	}
	if r.From.Name == nil {
		return nil, fmt.Errorf("from.name is required")
	}
	if r.From.X == nil || r.From.Y == nil {
		return nil, fmt.Errorf("from.x and from.y are required")
	}

	route := &domain.Route{
		Name:        *r.Name,
		Coordinates: domain.Coordinates{X: *r.Coordinates.X, Y: *r.Coordinates.Y},
		From:        domain.Location{X: *r.From.X, Y: *r.From.Y, Name: *r.From.Name},
		Distance:    *r.Distance,
		Rating:      *r.Rating,
	}
	if r.To != nil {
		to := domain.Location{}
		if r.To.X != nil {
			to.X = *r.To.X
		}
		if r.To.Y != nil {
			to.Y = *r.To.Y
		}
		if r.To.Name != nil {
			to.Name = *r.To.Name
		}
		route.To = &to
	}

	return route, nil
}

type CoordinatesResponse struct {
	X float64 `json:"x"`
	Y float32 `json:"y"`
}

type LocationResponse struct {
	X    int64  `json:"x"`
	Y    int32  `json:"y"`
	Name string `json:"name"`
}

type RouteResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Coordinates CoordinatesResponse `json:"coordinates"`
	From        LocationResponse    `json:"from"`
	To          *LocationResponse   `json:"to,omitempty"`
	Distance    int                 `json:"distance"`
	Rating      int64               `json:"rating"`
	CreatedAt   time.Time           `json:"created_at"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

func FromRoute(r *domain.Route) RouteResponse {
	res := RouteResponse{
		ID:          r.ID,
		Name:        r.Name,
		Coordinates: CoordinatesResponse{X: r.Coordinates.X, Y: r.Coordinates.Y},
		From:        LocationResponse{X: r.From.X, Y: r.From.Y, Name: r.From.Name},
		Distance:    r.Distance,
		Rating:      r.Rating,
		CreatedAt:   r.CreatedAt,
	}
	if r.To != nil {
		res.To = &LocationResponse{X: r.To.X, Y: r.To.Y, Name: r.To.Name}
	}
	return res
}

func FromRoutes(routes []*domain.Route) ListRoutesResponse {
	res := ListRoutesResponse{Routes: make([]RouteResponse, 0, len(routes))}
	for _, r := range routes {
		res.Routes = append(res.Routes, FromRoute(r))
	}
	return res
}

// Package importxml decodes the external route import document: a sequence
// of <route> elements carrying name, coordinates, endpoint locations,
// distance and rating.
package importxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"route-catalog-service/internal/domain"
)

// Wrapped by every structurally malformed document error, as opposed to a
// well-formed document carrying an invalid route.
var ErrBadDocument = errors.New("malformed import document")

// Pointer fields so a missing element is distinguishable from a zero value.
type xmlCoordinates struct {
	X *float64 `xml:"x"`
	Y *float32 `xml:"y"`
}

type xmlLocation struct {
	X    *int64  `xml:"x"`
	Y    *int32  `xml:"y"`
	Name *string `xml:"name"`
}

type xmlRoute struct {
	Name        *string         `xml:"name"`
	Coordinates *xmlCoordinates `xml:"coordinates"`
	From        *xmlLocation    `xml:"from"`
	To          *xmlLocation    `xml:"to"`
	Distance    *int            `xml:"distance"`
	Rating      *int64          `xml:"rating"`
}

// Parse decodes every <route> element in the document, in order, into
// validated candidate routes. The first malformed element or invalid
// candidate aborts the whole document; a non-empty error names the missing
// or invalid field.
func Parse(r io.Reader) ([]*domain.Route, error) {
	dec := xml.NewDecoder(r)
	routes := make([]*domain.Route, 0, 16)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse import document: %w: %w", ErrBadDocument, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "route" {
			continue
		}

		var el xmlRoute
		if err := dec.DecodeElement(&el, &start); err != nil {
			return nil, fmt.Errorf("parse import document: route #%d: %w: %w", len(routes)+1, ErrBadDocument, err)
		}

		route, err := buildRoute(&el)
		if err != nil {
			return nil, fmt.Errorf("parse import document: route #%d: %w", len(routes)+1, err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}

func buildRoute(el *xmlRoute) (*domain.Route, error) {
	if el.Name == nil || strings.TrimSpace(*el.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRoute)
	}

	if el.Coordinates == nil {
		return nil, fmt.Errorf("%w: coordinates is required", domain.ErrInvalidRoute)
	}
	if el.Coordinates.X == nil || el.Coordinates.Y == nil {
		return nil, fmt.Errorf("%w: coordinates.x and coordinates.y are required", domain.ErrInvalidRoute)
	}

	if el.From == nil {
		return nil, fmt.Errorf("%w: from is required", domain.ErrInvalidRoute)
	}
	if el.From.Name == nil || strings.TrimSpace(*el.From.Name) == "" {
		return nil, fmt.Errorf("%w: from.name is required", domain.ErrInvalidRoute)
	}
	if el.From.X == nil {
		return nil, fmt.Errorf("%w: from.x is required", domain.ErrInvalidRoute)
	}
	if el.From.Y == nil {
		return nil, fmt.Errorf("%w: from.y is required", domain.ErrInvalidRoute)
	}

	if el.Distance == nil {
		return nil, fmt.Errorf("%w: distance is required", domain.ErrInvalidRoute)
	}
	if el.Rating == nil {
		return nil, fmt.Errorf("%w: rating is required", domain.ErrInvalidRoute)
	}

	route := &domain.Route{
		Name:        strings.TrimSpace(*el.Name),
		Coordinates: domain.Coordinates{X: *el.Coordinates.X, Y: *el.Coordinates.Y},
		From: domain.Location{
			X:    *el.From.X,
			Y:    *el.From.Y,
			Name: strings.TrimSpace(*el.From.Name),
		},
		Distance: *el.Distance,
		Rating:   *el.Rating,
	}

	if el.To != nil {
		to := domain.Location{}
		if el.To.Name != nil {
			to.Name = strings.TrimSpace(*el.To.Name)
		}
		if el.To.X != nil {
			to.X = *el.To.X
		}
		if el.To.Y != nil {
			to.Y = *el.To.Y
		}
		route.To = &to
	}

	if err := route.Validate(); err != nil {
		return nil, err
	}

	return route, nil
}

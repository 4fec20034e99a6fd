package osm2streets

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

type jsonStreet struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Loc      [2]float64 `json:"loc"`
	Length   float64    `json:"length"`
	Boundary string     `json:"boundary,omitempty"`
}

type jsonBoundary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	AdminLevel int    `json:"admin_level"`
}

// WriteStreetsJSONLines writes one JSON object per street: id, name, location [lon, lat] and length (kilometers)
func WriteStreetsJSONLines(w io.Writer, streets []*Street) error {
	encoder := json.NewEncoder(w)
	for _, street := range streets {
		loc := street.Centroid()
		row := jsonStreet{
			ID:     int64(street.ID()),
			Name:   street.Name,
			Loc:    [2]float64{loc.Lon(), loc.Lat()},
			Length: street.LengthKilometers(),
		}
		if street.Boundary != nil {
			row.Boundary = street.Boundary.Name
		}
		if err := encoder.Encode(row); err != nil {
			return errors.Wrapf(err, "Can't write street '%s'", street.Name)
		}
	}
	return nil
}

// WriteBoundariesJSONLines writes one JSON object per boundary
func WriteBoundariesJSONLines(w io.Writer, boundaries []*Boundary) error {
	encoder := json.NewEncoder(w)
	for _, boundary := range boundaries {
		row := jsonBoundary{
			ID:         int64(boundary.ID),
			Name:       boundary.Name,
			AdminLevel: boundary.AdminLevel,
		}
		if err := encoder.Encode(row); err != nil {
			return errors.Wrapf(err, "Can't write boundary %d", boundary.ID)
		}
	}
	return nil
}

// Package catalog holds the fixed list of named trip endpoints.
package catalog

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/rtree"
	"gopkg.in/yaml.v3"

	"github.com/teerapatzza/travel-claim/internal/application/port"
	"github.com/teerapatzza/travel-claim/internal/domain/entity"
	"github.com/teerapatzza/travel-claim/internal/domain/geo"
)

type placeFile struct {
	Places []placeEntry `yaml:"places"`
}

type placeEntry struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

// Catalog is an immutable, spatially indexed set of places
type Catalog struct {
	places []entity.Place
	byID   map[string]int
	index  rtree.RTreeG[int]
}

var _ port.PlaceCatalog = (*Catalog)(nil)

// New builds a catalog. IDs must be unique and coordinates valid.
func New(places []entity.Place) (*Catalog, error) {
	c := &Catalog{
		places: make([]entity.Place, 0, len(places)),
		byID:   make(map[string]int, len(places)),
	}

	for _, p := range places {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("place %q has no id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate place id %q", p.ID)
		}
		if err := p.Location.Validate(); err != nil {
			return nil, fmt.Errorf("place %q: %w", p.ID, err)
		}

		idx := len(c.places)
		c.places = append(c.places, p)
		c.byID[p.ID] = idx

		pt := [2]float64{p.Location.Lng, p.Location.Lat}
		c.index.Insert(pt, pt, idx)
	}
	return c, nil
}

// Load reads places from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read place catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML of the form
//
//	places:
//	  - id: office
//	    name: สำนักงาน
//	    lat: 13.7367
//	    lng: 100.5232
func Parse(data []byte) (*Catalog, error) {
	var f placeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse place catalog: %w", err)
	}

	places := make([]entity.Place, 0, len(f.Places))
	for _, e := range f.Places {
		places = append(places, entity.Place{
			ID:       e.ID,
			Name:     e.Name,
			Location: entity.Coordinate{Lat: e.Lat, Lng: e.Lng},
		})
	}
	return New(places)
}

// List returns places in file order
func (c *Catalog) List() []entity.Place {
	out := make([]entity.Place, len(c.places))
	copy(out, c.places)
	return out
}

// Get looks a place up by id
func (c *Catalog) Get(id string) (entity.Place, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return entity.Place{}, fmt.Errorf("%w: %q", entity.ErrPlaceNotFound, id)
	}
	return c.places[idx], nil
}

// Nearest returns the closest place within radiusKm of loc
func (c *Catalog) Nearest(loc entity.Coordinate, radiusKm float64) (entity.Place, bool) {
	if radiusKm <= 0 || len(c.places) == 0 {
		return entity.Place{}, false
	}

	lo, hi := geo.BoxAround(loc, radiusKm)
	best, bestKm := -1, math.Inf(1)

	c.index.Search(
		[2]float64{lo.Lng, lo.Lat},
		[2]float64{hi.Lng, hi.Lat},
		func(_, _ [2]float64, idx int) bool {
			d := geo.GreatCircleKm(loc, c.places[idx].Location)
			// ties resolve to the earlier catalog entry
			if d <= radiusKm && (d < bestKm || (d == bestKm && idx < best)) {
				best, bestKm = idx, d
			}
			return true
		},
	)

	if best < 0 {
		return entity.Place{}, false
	}
	return c.places[best], true
}

// Len returns the number of places
func (c *Catalog) Len() int {
	return len(c.places)
}

// IDs returns all place ids sorted
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

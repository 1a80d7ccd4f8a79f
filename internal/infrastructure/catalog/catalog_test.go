package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()
	assert.Equal(t, len(builtinPlaces), c.Len())

	office, err := c.Get("office")
	require.NoError(t, err)
	assert.Equal(t, entity.Coordinate{Lat: 13.7367, Lng: 100.5232}, office.Location)

	_, err = c.Get("atlantis")
	assert.ErrorIs(t, err, entity.ErrPlaceNotFound)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		places []entity.Place
	}{
		{"missing id", []entity.Place{{Name: "x", Location: entity.Coordinate{Lat: 1, Lng: 1}}}},
		{"duplicate id", []entity.Place{
			{ID: "a", Location: entity.Coordinate{Lat: 1, Lng: 1}},
			{ID: "a", Location: entity.Coordinate{Lat: 2, Lng: 2}},
		}},
		{"bad coordinate", []entity.Place{{ID: "a", Location: entity.Coordinate{Lat: 95, Lng: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.places)
			assert.Error(t, err)
		})
	}
}

func TestCatalog_Nearest(t *testing.T) {
	c := Builtin()

	t.Run("snaps a click next to a place", func(t *testing.T) {
		p, ok := c.Nearest(entity.Coordinate{Lat: 13.7368, Lng: 100.5233}, 0.3)
		require.True(t, ok)
		assert.Equal(t, "office", p.ID)
	})

	t.Run("picks the closer of two candidates", func(t *testing.T) {
		// hua-lamphong and office are about 0.7 km apart
		p, ok := c.Nearest(entity.Coordinate{Lat: 13.7375, Lng: 100.5180}, 1.0)
		require.True(t, ok)
		assert.Equal(t, "hua-lamphong", p.ID)
	})

	t.Run("nothing within radius", func(t *testing.T) {
		_, ok := c.Nearest(entity.Coordinate{Lat: 15.0, Lng: 102.0}, 5)
		assert.False(t, ok)
	})

	t.Run("zero radius disables snapping", func(t *testing.T) {
		_, ok := c.Nearest(entity.Coordinate{Lat: 13.7367, Lng: 100.5232}, 0)
		assert.False(t, ok)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.yaml")
	yamlData := `places:
  - id: hq
    name: สำนักงานใหญ่
    lat: 13.75
    lng: 100.50
  - id: airport
    name: Airport
    lat: 13.69
    lng: 100.75
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"airport", "hq"}, c.IDs())

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "hq", list[0].ID)
	assert.Equal(t, "สำนักงานใหญ่", list[0].Name)

	list[0].Name = "mutated"
	again, _ := c.Get("hq")
	assert.Equal(t, "สำนักงานใหญ่", again.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("places: [oops"))
	assert.Error(t, err)
}

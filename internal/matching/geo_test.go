package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carematch-workers/internal/models"
)

var (
	saoPaulo     = models.Coordinate{Latitude: -23.5505, Longitude: -46.6333}
	rioDeJaneiro = models.Coordinate{Latitude: -22.9068, Longitude: -43.1729}
)

func TestDistance_KnownFixture(t *testing.T) {
	d := Distance(saoPaulo, rioDeJaneiro)
	assert.InDelta(t, 360.0, d, 5.0, "Sao Paulo to Rio should be ~357-363 km")
}

func TestDistance_Identity(t *testing.T) {
	assert.Equal(t, 0.0, Distance(saoPaulo, saoPaulo))
}

func TestDistance_Symmetry(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Coordinate
	}{
		{"intercity", saoPaulo, rioDeJaneiro},
		{"across equator", models.Coordinate{Latitude: -1.0, Longitude: 30.0}, models.Coordinate{Latitude: 1.0, Longitude: 30.0}},
		{"across antimeridian", models.Coordinate{Latitude: 10.0, Longitude: 179.5}, models.Coordinate{Latitude: 10.0, Longitude: -179.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Distance(tt.a, tt.b), Distance(tt.b, tt.a))
		})
	}
}

func TestDistance_RoundedToTwoDecimals(t *testing.T) {
	d := Distance(saoPaulo, rioDeJaneiro)
	assert.Equal(t, d, round2(d))
}

func TestTravelRadius_Km(t *testing.T) {
	tests := []struct {
		radius models.TravelRadius
		wantKm float64
	}{
		{models.RadiusUpTo5Km, 5},
		{models.RadiusUpTo10Km, 10},
		{models.RadiusUpTo15Km, 15},
		{models.RadiusUpTo20Km, 20},
		{models.RadiusUpTo30Km, 30},
		{models.RadiusMetroArea, 100},
		{"", models.DefaultRadiusKm},
		{"up_to_a_lightyear", models.DefaultRadiusKm},
	}
	for _, tt := range tests {
		t.Run(string(tt.radius), func(t *testing.T) {
			assert.Equal(t, tt.wantKm, tt.radius.Km())
		})
	}
}

func TestWithinRadius(t *testing.T) {
	assert.False(t, WithinRadius(saoPaulo, rioDeJaneiro, 300))
	assert.True(t, WithinRadius(saoPaulo, rioDeJaneiro, 400))
	assert.True(t, WithinRadius(saoPaulo, saoPaulo, 0))
}

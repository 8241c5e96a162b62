package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCoordinates_Validation(t *testing.T) {
	_, err := NewCoordinates(91, 0)
	assert.Error(t, err)

	_, err = NewCoordinates(0, -181)
	assert.Error(t, err)

	c, err := NewCoordinates(37.5665, 126.9780)
	assert.NoError(t, err)
	assert.Equal(t, 37.5665, c.Latitude)
}

func TestIsZero(t *testing.T) {
	assert.True(t, Coordinates{}.IsZero())
	assert.False(t, Coordinates{Latitude: 37.5, Longitude: 127.0}.IsZero())
}

func TestDistanceTo_KnownDistance(t *testing.T) {
	// Seoul City Hall to Busan City Hall is roughly 325 km.
	seoul := Coordinates{Latitude: 37.5665, Longitude: 126.9780}
	busan := Coordinates{Latitude: 35.1798, Longitude: 129.0750}

	km := seoul.DistanceToKm(busan)
	assert.InDelta(t, 325, km, 10)
}

func TestDistanceTo_SamePointIsZero(t *testing.T) {
	p := Coordinates{Latitude: 37.5, Longitude: 127.0}
	assert.Equal(t, 0.0, p.DistanceTo(p))
}

func TestDistanceTo_Symmetry(t *testing.T) {
	a := Coordinates{Latitude: 37.5, Longitude: 127.0}
	b := Coordinates{Latitude: 36.3, Longitude: 127.4}
	assert.InDelta(t, a.DistanceTo(b), b.DistanceTo(a), 0.0001)
}

func TestEqualityByFieldComparison(t *testing.T) {
	a := Coordinates{Latitude: 37.5, Longitude: 127.0}
	b := Coordinates{Latitude: 37.5, Longitude: 127.0}
	assert.True(t, a == b)
}

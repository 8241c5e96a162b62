package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferRegion(t *testing.T) {
	tests := []struct {
		name   string
		coords Coordinates
		want   string
	}{
		{"seoul city hall", Coordinates{Latitude: 37.5665, Longitude: 126.9780}, "서울특별시"},
		{"busan", Coordinates{Latitude: 35.1798, Longitude: 129.0750}, "부산광역시"},
		{"daejeon", Coordinates{Latitude: 36.3504, Longitude: 127.3845}, "대전광역시"},
		{"jeju", Coordinates{Latitude: 33.4996, Longitude: 126.5312}, "제주특별자치도"},
		{"middle of the pacific", Coordinates{Latitude: 10.0, Longitude: 170.0}, DefaultRegion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferRegion(tt.coords))
		})
	}
}

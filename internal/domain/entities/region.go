package entities

// DefaultRegion is used when no bounding box matches the caller.
const DefaultRegion = "서울특별시"

type regionBox struct {
	label  string
	minLat float64
	maxLat float64
	minLon float64
	maxLon float64
}

// Coarse bounding boxes for the feed's administrative regions. Boxes
// overlap at the edges; first match wins, so the more specific metro
// areas come before the surrounding provinces.
var regionBoxes = []regionBox{
	{"서울특별시", 37.41, 37.72, 126.76, 127.19},
	{"인천광역시", 37.33, 37.62, 126.37, 126.80},
	{"대전광역시", 36.18, 36.50, 127.25, 127.56},
	{"대구광역시", 35.60, 36.02, 128.35, 128.76},
	{"광주광역시", 35.05, 35.26, 126.65, 127.02},
	{"부산광역시", 34.99, 35.39, 128.76, 129.31},
	{"울산광역시", 35.31, 35.73, 129.03, 129.47},
	{"경기도", 36.89, 38.30, 126.39, 127.86},
	{"강원특별자치도", 37.02, 38.62, 127.08, 129.37},
	{"충청북도", 36.00, 37.27, 127.25, 128.65},
	{"충청남도", 35.97, 37.05, 125.90, 127.65},
	{"전북특별자치도", 35.30, 36.16, 126.39, 127.92},
	{"전라남도", 33.89, 35.50, 125.06, 127.90},
	{"경상북도", 35.56, 37.55, 127.79, 131.88},
	{"경상남도", 34.55, 35.91, 127.57, 129.22},
	{"제주특별자치도", 33.10, 33.61, 126.14, 126.98},
}

// InferRegion maps caller coordinates to a coarse feed region label,
// falling back to DefaultRegion when nothing matches.
func InferRegion(c Coordinates) string {
	for _, box := range regionBoxes {
		if c.Latitude >= box.minLat && c.Latitude <= box.maxLat &&
			c.Longitude >= box.minLon && c.Longitude <= box.maxLon {
			return box.label
		}
	}
	return DefaultRegion
}

package userdata

import "math"

const (
	// StarCount is how many glyphs a rating is drawn with
	StarCount = 5
	// PointsPerStar maps the 0-10 scale onto the glyphs
	PointsPerStar = 2.0
)

// StarFill returns the fill percentage (0-100) of each star for rating.
// Fill is linear within a star, so 5.0 draws two full stars and one at 50.
func StarFill(rating float64) [StarCount]float64 {
	var fill [StarCount]float64
	for i := range fill {
		portion := (rating - float64(i)*PointsPerStar) / PointsPerStar
		fill[i] = math.Max(0, math.Min(1, portion)) * 100
	}
	return fill
}

// StarsForRating is the whole-star count a picker shows for rating
func StarsForRating(rating float64) int {
	return int(math.Round(rating / PointsPerStar))
}

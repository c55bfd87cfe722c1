package review

import (
	"math"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/apperr"
)

const (
	minRating = 1
	maxRating = 5
)

type Categories struct {
	Food           *float64
	Lodging        *float64
	Transportation *float64
	Hotels         *float64
}

func inRange(v float64) bool {
	return v >= minRating && v <= maxRating
}

// Rating derives the overall score. Category scores, when any are given, win over
// the single rating and are averaged to one decimal.
func Rating(single *float64, c Categories) (float64, error) {
	named := []struct {
		field string
		value *float64
	}{
		{"food", c.Food},
		{"lodging", c.Lodging},
		{"transportation", c.Transportation},
		{"hotels", c.Hotels},
	}

	var sum float64
	var n int
	for _, cat := range named {
		if cat.value == nil {
			continue
		}
		if !inRange(*cat.value) {
			return 0, apperr.Validation(cat.field, "must be between 1 and 5")
		}
		sum += *cat.value
		n++
	}
	if n > 0 {
		return math.Round(sum/float64(n)*10) / 10, nil
	}

	if single == nil {
		return 0, apperr.Validation("rating", "a rating or at least one category rating is required")
	}
	if !inRange(*single) {
		return 0, apperr.Validation("rating", "must be between 1 and 5")
	}
	return *single, nil
}

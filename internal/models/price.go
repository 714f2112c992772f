package models

import "time"

type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries ordered by time, oldest first.
type PriceSeries []PricePoint

func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

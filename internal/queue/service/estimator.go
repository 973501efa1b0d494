package service

import "github.com/thisisgagangupta/dev-kiosk/pkg/model"

// Estimator derives a wait-time range from the number of active tokens
// ahead. Deliberately a simple linear model with a widened upper bound;
// a placeholder policy, not a guarantee, and no historical-duration
// learning.
type Estimator struct {
	avgConsultMin int
}

func NewEstimator(avgConsultMin int) *Estimator {
	return &Estimator{avgConsultMin: avgConsultMin}
}

// Estimate computes the ETA window for a given ahead count. Both
// bounds are monotonically non-decreasing in ahead.
func (e *Estimator) Estimate(ahead int) model.QueuePosition {
	low := ahead * e.avgConsultMin

	widened := int(float64(ahead+1) * float64(e.avgConsultMin) * 1.2)
	high := low + e.avgConsultMin
	if widened > high {
		high = widened
	}

	confidence := 70
	if ahead >= 3 {
		confidence = 60
	}

	return model.QueuePosition{
		Position:   ahead,
		EtaLow:     low,
		EtaHigh:    high,
		Confidence: confidence,
	}
}

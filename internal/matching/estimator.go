package matching

import "compliance-workers/internal/models"

const DefaultCurrency = "EUR"

// Estimator projects the payout range of a grant for a company.
type Estimator struct {
	currency string
}

func NewEstimator(currency string) *Estimator {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Estimator{currency: currency}
}

func (e *Estimator) Estimate(company models.Company, grant models.Grant) models.EconomicEstimation {
	params := grant.EstimationParams

	var estimated, min float64
	max := valueOf(grant.MaxAmount)

	switch {
	case isSet(params.FixedAmount):
		estimated = *params.FixedAmount
		min = *params.FixedAmount
		max = *params.FixedAmount
	case isSet(params.BaseAmount):
		estimated = *params.BaseAmount
		if isSet(params.PerEmployee) && company.EmployeeCount != nil && *company.EmployeeCount != 0 {
			estimated += *params.PerEmployee * float64(*company.EmployeeCount)
		}
	default:
		estimated = max
	}

	if isSet(params.MaxCap) {
		// With no grant maximum the cap is the only upper bound.
		if max == 0 || *params.MaxCap < max {
			max = *params.MaxCap
		}
		estimated = minFloat(estimated, max)
	}
	if isSet(grant.MaxAmount) {
		estimated = minFloat(estimated, *grant.MaxAmount)
	}
	if estimated == 0 && max > 0 {
		estimated = max
	}

	return models.EconomicEstimation{
		MinAmount:       min,
		MaxAmount:       max,
		EstimatedAmount: estimated,
		Confidence:      models.ConfidenceMedium,
		Currency:        e.currency,
	}
}

// isSet follows the catalog convention that a zero coefficient is the same as no coefficient.
func isSet(v *float64) bool {
	return v != nil && *v != 0
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

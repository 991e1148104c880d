package ml

import "gonum.org/v1/gonum/stat"

// StandardScaler centers each feature to zero mean and unit variance. The
// scaler is fit on the full feature matrix before clustering so distances
// are comparable across features.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes per-feature mean and (population) standard deviation.
func (s *StandardScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	p := len(X[0])
	s.Mean = make([]float64, p)
	s.Std = make([]float64, p)

	col := make([]float64, len(X))
	for j := 0; j < p; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = stat.PopStdDev(col, nil)
		if s.Std[j] == 0 {
			// constant feature: leave it centered only
			s.Std[j] = 1
		}
	}
}

// Transform returns a standardized copy of X.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out
}

// FitTransform fits the scaler and standardizes X in one step.
func (s *StandardScaler) FitTransform(X [][]float64) [][]float64 {
	s.Fit(X)
	return s.Transform(X)
}

// Package scoring turns a detector similarity score into player rewards.
//
// The two curves run in opposite directions: a close visual match earns the
// player few points (the detector was not fooled) but teaches the detector a
// lot, so the training progress increment grows with similarity.
package scoring

import "math"

const (
	// MinSimilarity and MaxSimilarity bound the detector's similarity scale.
	MinSimilarity = 0.0
	MaxSimilarity = 100.0

	// DefaultMaxScore is the most points a single detection can earn.
	DefaultMaxScore = 10

	// DefaultMaxIncrement is the largest progress step a single detection can add.
	DefaultMaxIncrement = 10

	// MaxProgress caps the cumulative training progress meter.
	MaxProgress = 100
)

// Clamp limits similarity to [MinSimilarity, MaxSimilarity]. The second
// return value reports whether the input was out of range (NaN counts as out
// of range and clamps to MinSimilarity) so callers can log the anomaly.
func Clamp(similarity float64) (float64, bool) {
	switch {
	case math.IsNaN(similarity):
		return MinSimilarity, true
	case similarity < MinSimilarity:
		return MinSimilarity, true
	case similarity > MaxSimilarity:
		return MaxSimilarity, true
	}
	return similarity, false
}

// RewardPoints returns round(maxScore * (1 - similarity/100)) after clamping.
// It is non-increasing in similarity.
func RewardPoints(similarity float64, maxScore int) int {
	s, _ := Clamp(similarity)
	return int(math.Round(float64(maxScore) * (1 - s/MaxSimilarity)))
}

// ProgressIncrement returns round(sqrt(similarity/100) * maxIncrement) after
// clamping. The square root makes progress grow quickly for the first
// matches and flatten towards perfect ones. It is non-decreasing in similarity.
func ProgressIncrement(similarity float64, maxIncrement int) int {
	s, _ := Clamp(similarity)
	return int(math.Round(math.Sqrt(s/MaxSimilarity) * float64(maxIncrement)))
}

// AddProgress adds inc to current and caps the result at MaxProgress.
// Negative increments are ignored so the meter never moves backwards.
func AddProgress(current, inc int) int {
	if inc < 0 {
		inc = 0
	}
	return min(MaxProgress, current+inc)
}

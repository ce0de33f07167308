package drill

import "math"

// Stats tracks strategy-drill answers for one session.
type Stats struct {
	Hands      int `json:"hands"`
	Correct    int `json:"correct"`
	Streak     int `json:"streak"`
	BestStreak int `json:"best_streak"`
}

func (s *Stats) Record(correct bool) {
	s.Hands++
	if !correct {
		s.Streak = 0
		return
	}
	s.Correct++
	s.Streak++
	if s.Streak > s.BestStreak {
		s.BestStreak = s.Streak
	}
}

// Accuracy is the rounded percentage of correct answers, 0 before any hand.
func (s Stats) Accuracy() int { return percent(s.Correct, s.Hands) }

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// WilsonCI95 bounds the true hit rate behind correct/total answers.
func WilsonCI95(correct, total int) (low, hi float64) {
	if total <= 0 {
		return 0, 1
	}
	z := 1.96
	n := float64(total)
	p := float64(correct) / n
	den := 1 + (z*z)/n
	center := p + (z*z)/(2*n)
	half := z * math.Sqrt((p*(1-p))/n+(z*z)/(4*n*n))
	return math.Max(0, (center-half)/den), math.Min(1, (center+half)/den)
}

// Progress is the long-lived summary a client persists between visits.
type Progress struct {
	Hands      int        `json:"hands"`
	Correct    int        `json:"correct"`
	Accuracy   int        `json:"accuracy"`
	AccuracyCI [2]float64 `json:"accuracy_ci95"`
	BestStreak int        `json:"best_streak"`
	FlashBest  int        `json:"flash_best"`
}

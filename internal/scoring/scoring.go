// Package scoring computes per-answer points with a streak bonus. It is pure:
// the session owns the running streak and passes it in on every call.
package scoring

const (
	// BasePoints is awarded for every correct answer.
	BasePoints = 100
	// StreakBonus is the per-consecutive-correct increment of the bonus.
	StreakBonus = 50
	// MaxStreakBonus caps the bonus (reached at a streak of 10).
	MaxStreakBonus = 500
)

// Score returns the points earned for one answer and the new streak value.
// A correct answer extends the streak and earns BasePoints plus the capped
// streak bonus; an incorrect answer resets the streak and earns nothing.
func Score(correct bool, streak int) (points, newStreak int) {
	if !correct {
		return 0, 0
	}
	newStreak = streak + 1
	bonus := newStreak * StreakBonus
	if bonus > MaxStreakBonus {
		bonus = MaxStreakBonus
	}
	return BasePoints + bonus, newStreak
}

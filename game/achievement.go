package game

// Achievement names a one-time award stored in a player's progress.
type Achievement string

const (
	FirstWin    Achievement = "first_win"
	SpeedRunner Achievement = "speed_runner"
	Collector   Achievement = "collector"
	Survivor    Achievement = "survivor"
)

const (
	speedRunnerSeconds = 60
	survivorStreak     = 3
)

// EarnedAchievements lists the awards a winning result qualifies for, given
// the win streak including that result.
func EarnedAchievements(r Result, streak int) []Achievement {
	if r.Status != StatusWin {
		return nil
	}
	earned := []Achievement{FirstWin}
	if r.Seconds < speedRunnerSeconds {
		earned = append(earned, SpeedRunner)
	}
	if r.ItemsTotal > 0 && r.ItemsCollected == r.ItemsTotal {
		earned = append(earned, Collector)
	}
	if streak >= survivorStreak {
		earned = append(earned, Survivor)
	}
	return earned
}

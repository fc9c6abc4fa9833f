package game

import (
	"slices"
)

// Progress is a player's durable record across sessions.
type Progress struct {
	UnlockedLevels []int           `json:"unlockedLevels"`
	BestTimes      map[int]float64 `json:"bestTimes"`
	Achievements   []Achievement   `json:"achievements,omitempty"`
	WinStreak      int             `json:"winStreak"`
}

// NewProgress returns the record of a player who has only level 1.
func NewProgress() *Progress {
	return &Progress{UnlockedLevels: []int{1}, BestTimes: map[int]float64{}}
}

// Normalize repairs a decoded record: level 1 is always unlocked, levels are
// sorted and unique, and non-positive entries are dropped. It reports whether
// the record was usable at all.
func (p *Progress) Normalize() bool {
	if p == nil {
		return false
	}
	levels := []int{1}
	for _, l := range p.UnlockedLevels {
		if l > 0 {
			levels = append(levels, l)
		}
	}
	slices.Sort(levels)
	p.UnlockedLevels = slices.Compact(levels)

	if p.BestTimes == nil {
		p.BestTimes = map[int]float64{}
	}
	for level, t := range p.BestTimes {
		if level <= 0 || t < 0 {
			delete(p.BestTimes, level)
		}
	}
	if p.WinStreak < 0 {
		p.WinStreak = 0
	}
	return true
}

// IsUnlocked reports whether level may be played.
func (p *Progress) IsUnlocked(level int) bool {
	_, ok := slices.BinarySearch(p.UnlockedLevels, level)
	return ok
}

// Unlock adds level to the unlocked set. Unlock order is not enforced.
// It reports whether the set changed.
func (p *Progress) Unlock(level int) bool {
	if level <= 0 {
		return false
	}
	i, ok := slices.BinarySearch(p.UnlockedLevels, level)
	if ok {
		return false
	}
	p.UnlockedLevels = slices.Insert(p.UnlockedLevels, i, level)
	return true
}

// UpdateBestTime stores seconds for level when there is no previous time or
// the new one is strictly smaller. It reports whether the record changed.
func (p *Progress) UpdateBestTime(level int, seconds float64) bool {
	if p.BestTimes == nil {
		p.BestTimes = map[int]float64{}
	}
	if best, ok := p.BestTimes[level]; ok && seconds >= best {
		return false
	}
	p.BestTimes[level] = seconds
	return true
}

// BestTime returns the stored best time for level.
func (p *Progress) BestTime(level int) (float64, bool) {
	t, ok := p.BestTimes[level]
	return t, ok
}

// Apply folds a finished session into the record and returns the achievements
// it earned for the first time.
func (p *Progress) Apply(r Result) []Achievement {
	if r.Status != StatusWin {
		p.WinStreak = 0
		return nil
	}
	p.WinStreak++
	p.Unlock(r.Level + 1)
	p.UpdateBestTime(r.Level, r.Seconds)

	var earned []Achievement
	for _, a := range EarnedAchievements(r, p.WinStreak) {
		if !slices.Contains(p.Achievements, a) {
			p.Achievements = append(p.Achievements, a)
			earned = append(earned, a)
		}
	}
	return earned
}

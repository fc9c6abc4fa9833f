// Package gameapi exposes level sessions and progress over HTTP.
package gameapi

import "github.com/beka-birhanu/vinom-maze/game"

// MoveRequest carries one direction: north/east/south/west or up/right/down/left.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// ProgressResponse is the player's durable record.
type ProgressResponse struct {
	UnlockedLevels []int              `json:"unlockedLevels"`
	BestTimes      map[int]float64    `json:"bestTimes"`
	Achievements   []game.Achievement `json:"achievements"`
	WinStreak      int                `json:"winStreak"`
}

func newProgressResponse(p *game.Progress) *ProgressResponse {
	achievements := p.Achievements
	if achievements == nil {
		achievements = []game.Achievement{}
	}
	return &ProgressResponse{
		UnlockedLevels: p.UnlockedLevels,
		BestTimes:      p.BestTimes,
		Achievements:   achievements,
		WinStreak:      p.WinStreak,
	}
}

package maze

import "time"

// EffectKind tags the variant of an item effect.
type EffectKind string

const (
	EffectTime  EffectKind = "time"
	EffectSpeed EffectKind = "speed"
	EffectMap   EffectKind = "map"
)

// Effect is the payload of an item cell. The set of implementations is closed:
// TimeEffect, SpeedEffect and MapEffect.
type Effect interface {
	Kind() EffectKind
	isEffect()
}

// TimeEffect extends the remaining time budget once, on pickup.
type TimeEffect struct {
	Amount time.Duration
}

// SpeedEffect multiplies how many cells a single move command covers.
type SpeedEffect struct {
	Multiplier int
	Duration   time.Duration
}

// MapEffect reveals the whole maze for a while.
type MapEffect struct {
	Duration time.Duration
}

func (TimeEffect) Kind() EffectKind  { return EffectTime }
func (SpeedEffect) Kind() EffectKind { return EffectSpeed }
func (MapEffect) Kind() EffectKind   { return EffectMap }

func (TimeEffect) isEffect()  {}
func (SpeedEffect) isEffect() {}
func (MapEffect) isEffect()   {}

// DefaultEffects is the item pool handed out by the annotator.
func DefaultEffects() []Effect {
	return []Effect{
		TimeEffect{Amount: 30 * time.Second},
		SpeedEffect{Multiplier: 2, Duration: 10 * time.Second},
		MapEffect{Duration: 10 * time.Second},
	}
}

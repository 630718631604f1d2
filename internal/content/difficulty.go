package content

import (
	"strings"
	"time"
)

// Difficulty selects a preset for every timed challenge.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps free text to a difficulty, defaulting to normal.
func ParseDifficulty(raw string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(raw))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyNormal
	}
}

// Preset holds the per-difficulty parameters of the challenge suite.
type Preset struct {
	ConflictTrials  int
	ConflictSeconds int

	NBackN       int
	NBackLength  int
	NBackDisplay time.Duration
	NBackGap     time.Duration

	PatternPuzzles int
	PatternHints   int

	ReactionTrials   int
	ReactionMinDelay time.Duration
	ReactionMaxDelay time.Duration

	SwitchItems int
	SwitchEvery int

	DefenseWaveDuration time.Duration
	DefenseSpeedFactor  float64
}

var presets = map[Difficulty]Preset{
	DifficultyEasy: {
		ConflictTrials: 15, ConflictSeconds: 60,
		NBackN: 1, NBackLength: 15, NBackDisplay: 1500 * time.Millisecond, NBackGap: 700 * time.Millisecond,
		PatternPuzzles: 4, PatternHints: 2,
		ReactionTrials: 5, ReactionMinDelay: time.Second, ReactionMaxDelay: 3 * time.Second,
		SwitchItems: 12, SwitchEvery: 6,
		DefenseWaveDuration: 20 * time.Second, DefenseSpeedFactor: 0.8,
	},
	DifficultyNormal: {
		ConflictTrials: 20, ConflictSeconds: 45,
		NBackN: 2, NBackLength: 20, NBackDisplay: 1200 * time.Millisecond, NBackGap: 500 * time.Millisecond,
		PatternPuzzles: 5, PatternHints: 1,
		ReactionTrials: 6, ReactionMinDelay: 1500 * time.Millisecond, ReactionMaxDelay: 4 * time.Second,
		SwitchItems: 16, SwitchEvery: 5,
		DefenseWaveDuration: 25 * time.Second, DefenseSpeedFactor: 1,
	},
	DifficultyHard: {
		ConflictTrials: 25, ConflictSeconds: 30,
		NBackN: 3, NBackLength: 25, NBackDisplay: 900 * time.Millisecond, NBackGap: 400 * time.Millisecond,
		PatternPuzzles: 6, PatternHints: 0,
		ReactionTrials: 8, ReactionMinDelay: 2 * time.Second, ReactionMaxDelay: 5 * time.Second,
		SwitchItems: 20, SwitchEvery: 4,
		DefenseWaveDuration: 30 * time.Second, DefenseSpeedFactor: 1.3,
	},
}

// PresetFor returns the preset for d, falling back to normal.
func PresetFor(d Difficulty) Preset {
	if p, ok := presets[d]; ok {
		return p
	}
	return presets[DifficultyNormal]
}

package scoring

import (
	"math"
	"time"
)

const (
	NBackHit        = 30
	NBackFalseAlarm = -5

	PatternCorrect         = 35
	PatternCorrectWithHint = 20

	SwitchCorrect = 25

	DefenseShapePoints = 10
	DefenseStarPoints  = 15
)

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Conflict scores one color-word trial: max(5, 28 - rt/110) when correct.
func Conflict(correct bool, rt time.Duration) int {
	if !correct {
		return 0
	}
	return max(5, int(math.Round(28-millis(rt)/110)))
}

// Reaction scores a tap after the stimulus: max(0, 120 - rt/7).
func Reaction(rt time.Duration) int {
	return max(0, int(math.Round(120-millis(rt)/7)))
}

// NBack applies one match response to a running total, never going below zero.
func NBack(total int, isMatch bool) int {
	if isMatch {
		return total + NBackHit
	}
	return max(0, total+NBackFalseAlarm)
}

// Pattern scores a pattern-completion answer.
func Pattern(correct, hinted bool) int {
	switch {
	case !correct:
		return 0
	case hinted:
		return PatternCorrectWithHint
	default:
		return PatternCorrect
	}
}

// RuleSwitch scores a rule-switching answer.
func RuleSwitch(correct bool) int {
	if correct {
		return SwitchCorrect
	}
	return 0
}

package scoring

// Level is a named experience threshold.
type Level struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// Levels is ascending by threshold.
var Levels = []Level{
	{Name: "Novice", Threshold: 0},
	{Name: "Apprentice", Threshold: 500},
	{Name: "Adept", Threshold: 1500},
	{Name: "Expert", Threshold: 3500},
	{Name: "Master", Threshold: 7000},
}

// LevelFor returns the highest level whose threshold xp has reached.
func LevelFor(xp int) Level {
	current := Levels[0]
	for _, l := range Levels {
		if xp >= l.Threshold {
			current = l
		}
	}
	return current
}

// StreakBonus is floor(total * streak * 0.05), computed in integers.
func StreakBonus(total, streak int) int {
	if total <= 0 || streak <= 0 {
		return 0
	}
	return total * streak * 5 / 100
}

package content

// Law is one item of the daily wellness checklist.
type Law struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Laws is the five-law checklist of the quantum suite.
var Laws = [5]Law{
	{Index: 0, Name: "Law of Light", Description: "Ten minutes of daylight within an hour of waking."},
	{Index: 1, Name: "Law of Motion", Description: "Twenty minutes of deliberate movement."},
	{Index: 2, Name: "Law of Focus", Description: "One ninety-minute block without notifications."},
	{Index: 3, Name: "Law of Connection", Description: "One real conversation with someone you care about."},
	{Index: 4, Name: "Law of Rest", Description: "Screens off thirty minutes before sleep."},
}

var tips = []string{
	"Pair a new habit with something you already do every day.",
	"Morning light sets tonight's sleep.",
	"Short walks after meals steady your energy.",
	"Write tomorrow's first task before you stop today.",
	"Protect your best hour for your hardest work.",
	"Hydrate before caffeine.",
	"Celebrate the streak, not the perfection.",
}

// TipForDay returns the tip shown on the given day of the year.
func TipForDay(yearDay int) string {
	if yearDay < 0 {
		yearDay = -yearDay
	}
	return tips[yearDay%len(tips)]
}

package content

// Colors used by the conflict and rule-switch challenges.
var Colors = []string{"red", "blue", "green", "yellow"}

// Shapes used by the rule-switch challenge.
var Shapes = []string{"circle", "square", "triangle", "star"}

// Puzzle is a 3x3 grid with one missing cell.
type Puzzle struct {
	ID      string    `json:"id"`
	Grid    [9]string `json:"grid"`
	Missing int       `json:"missing"`
	Options [4]string `json:"options"`
	Answer  int       `json:"-"`
	Rule    string    `json:"-"`
}

var puzzles = []Puzzle{
	{
		ID:      "p1",
		Grid:    [9]string{"●", "●●", "●●●", "▲", "▲▲", "▲▲▲", "■", "■■", ""},
		Missing: 8,
		Options: [4]string{"■", "■■■", "▲▲▲", "●●●"},
		Answer:  1,
		Rule:    "Each row keeps its shape and adds one more every column.",
	},
	{
		ID:      "p2",
		Grid:    [9]string{"red ●", "blue ●", "green ●", "red ▲", "blue ▲", "green ▲", "red ■", "", "green ■"},
		Missing: 7,
		Options: [4]string{"blue ▲", "green ■", "blue ■", "red ■"},
		Answer:  2,
		Rule:    "Rows share a shape; columns share a colour.",
	},
	{
		ID:      "p3",
		Grid:    [9]string{"1", "2", "3", "2", "4", "6", "3", "6", ""},
		Missing: 8,
		Options: [4]string{"8", "9", "12", "7"},
		Answer:  1,
		Rule:    "Each cell is its row number times its column number.",
	},
	{
		ID:      "p4",
		Grid:    [9]string{"↑", "→", "↓", "→", "↓", "←", "↓", "", "↑"},
		Missing: 7,
		Options: [4]string{"←", "↑", "→", "↓"},
		Answer:  0,
		Rule:    "The arrow turns a quarter clockwise at every step to the right or down.",
	},
	{
		ID:      "p5",
		Grid:    [9]string{"○", "◐", "●", "○", "◐", "●", "", "◐", "●"},
		Missing: 6,
		Options: [4]string{"●", "◐", "○", "◑"},
		Answer:  2,
		Rule:    "Every row fills the circle from empty to full.",
	},
	{
		ID:      "p6",
		Grid:    [9]string{"A", "C", "E", "B", "D", "F", "C", "E", ""},
		Missing: 8,
		Options: [4]string{"F", "H", "G", "D"},
		Answer:  2,
		Rule:    "Letters skip one across a row and advance one down a column.",
	},
}

// Puzzles returns the pattern-completion bank.
func Puzzles() []Puzzle {
	out := make([]Puzzle, len(puzzles))
	copy(out, puzzles)
	return out
}

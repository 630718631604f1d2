package content

import "archetype-quiz-service/internal/domain"

// Strategy is one recommended practice for an archetype.
type Strategy struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Archetype is the static description attached to an archetype code.
type Archetype struct {
	Code       domain.ArchetypeCode `json:"code"`
	Name       string               `json:"name"`
	Tagline    string               `json:"tagline"`
	Teaser     string               `json:"teaser"`
	Strengths  []string             `json:"strengths"`
	BlindSpots []string             `json:"blindSpots"`
	Strategies []Strategy           `json:"strategies"`
}

var archetypes = map[domain.ArchetypeCode]Archetype{
	domain.ArchetypeArchitect: {
		Code:    domain.ArchetypeArchitect,
		Name:    "The Architect",
		Tagline: "You build the system before you build the thing.",
		Teaser:  "Your answers point to a planner who turns ambiguity into structure.",
		Strengths: []string{
			"Sees dependencies other people miss",
			"Keeps commitments once a plan exists",
			"Calm under complexity",
		},
		BlindSpots: []string{
			"Over-plans when a quick experiment would do",
			"Can read spontaneity as carelessness",
		},
		Strategies: []Strategy{
			{Title: "Timebox the blueprint", Detail: "Cap planning at a third of the available time, then start."},
			{Title: "Ship a rough draft", Detail: "Share one unfinished artifact each week."},
			{Title: "Schedule slack", Detail: "Leave one unplanned block per day for the unexpected."},
		},
	},
	domain.ArchetypeCatalyst: {
		Code:    domain.ArchetypeCatalyst,
		Name:    "The Catalyst",
		Tagline: "Momentum is your native language.",
		Teaser:  "Your answers point to someone who starts things and pulls others along.",
		Strengths: []string{
			"Turns ideas into action quickly",
			"Energises groups",
			"Comfortable with risk",
		},
		BlindSpots: []string{
			"Loses interest once the novelty fades",
			"Underestimates follow-through work",
		},
		Strategies: []Strategy{
			{Title: "Finish line first", Detail: "Write down what done looks like before starting."},
			{Title: "Pair with a closer", Detail: "Partner with someone who enjoys the last ten percent."},
			{Title: "One launch at a time", Detail: "Hold new projects until the current one ships."},
		},
	},
	domain.ArchetypeGuardian: {
		Code:    domain.ArchetypeGuardian,
		Name:    "The Guardian",
		Tagline: "People trust you because you stay.",
		Teaser:  "Your answers point to a steady presence that others rely on.",
		Strengths: []string{
			"Reliable and consistent",
			"Reads the emotional temperature of a room",
			"Protects what matters",
		},
		BlindSpots: []string{
			"Says yes when the answer should be no",
			"Avoids necessary conflict",
		},
		Strategies: []Strategy{
			{Title: "Boundary script", Detail: "Prepare one sentence for declining requests."},
			{Title: "Own a goal", Detail: "Keep one objective that is only for you."},
			{Title: "Name the tension", Detail: "Raise disagreements within a day instead of absorbing them."},
		},
	},
	domain.ArchetypeExplorer: {
		Code:    domain.ArchetypeExplorer,
		Name:    "The Explorer",
		Tagline: "Curiosity is your compass.",
		Teaser:  "Your answers point to a learner who follows questions wherever they lead.",
		Strengths: []string{
			"Connects ideas across fields",
			"Adapts quickly to new information",
			"Asks the question nobody asked",
		},
		BlindSpots: []string{
			"Collects interests faster than results",
			"Finds routine draining",
		},
		Strategies: []Strategy{
			{Title: "Depth sprints", Detail: "Pick one topic per fortnight and produce something from it."},
			{Title: "Curiosity log", Detail: "Park new ideas in a list instead of chasing them immediately."},
			{Title: "Routine as runway", Detail: "Automate the boring parts so exploration has room."},
		},
	},
}

// ArchetypeFor returns the description of code.
func ArchetypeFor(code domain.ArchetypeCode) (Archetype, bool) {
	a, ok := archetypes[code]
	return a, ok
}

package content

import "archetype-quiz-service/internal/domain"

// Option is one answer to a quiz question. Unscored options carry a free-form
// Preference instead of a category.
type Option struct {
	Text       string               `json:"text"`
	Category   domain.ArchetypeCode `json:"category,omitempty"`
	Preference string               `json:"preference,omitempty"`
}

// Question is one quiz item.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Scored  bool     `json:"scored"`
	Options []Option `json:"options"`
}

func scored(id, prompt string, a, b, c, d string) Question {
	return Question{
		ID:     id,
		Prompt: prompt,
		Scored: true,
		Options: []Option{
			{Text: a, Category: domain.ArchetypeArchitect},
			{Text: b, Category: domain.ArchetypeCatalyst},
			{Text: c, Category: domain.ArchetypeGuardian},
			{Text: d, Category: domain.ArchetypeExplorer},
		},
	}
}

var questions = []Question{
	scored("q1", "A free Saturday opens up. What happens first?",
		"I sketch a plan for the day", "I text friends and see what's on",
		"I check whether anyone needs a hand", "I wander somewhere new"),
	scored("q2", "A project at work stalls. Your instinct is to…",
		"map what is blocking it", "push a quick fix to get it moving",
		"check in with the people involved", "look for a completely different angle"),
	scored("q3", "Which compliment lands best?",
		"\"You always have a plan.\"", "\"You make things happen.\"",
		"\"I can count on you.\"", "\"You think differently.\""),
	scored("q4", "Your ideal holiday is…",
		"a well-researched itinerary", "a packed festival weekend",
		"a cabin with the people you love", "a one-way ticket"),
	scored("q5", "Under pressure you tend to…",
		"make a list", "speed up",
		"look after everyone else first", "improvise"),
	scored("q6", "A friend asks for advice. You…",
		"break the problem into steps", "tell them to just go for it",
		"listen until they feel heard", "ask questions they hadn't considered"),
	scored("q7", "The best kind of meeting is one that…",
		"follows the agenda", "ends with a decision",
		"leaves everyone aligned", "produces an unexpected idea"),
	scored("q8", "When learning something new you prefer…",
		"a structured course", "jumping in and failing fast",
		"learning alongside someone", "following tangents"),
	scored("q9", "What drains you most?",
		"chaos", "waiting",
		"conflict", "repetition"),
	scored("q10", "In five years you want to be known for…",
		"building something that lasts", "starting something bold",
		"being there for people", "discovering something new"),
	{
		ID:     "q11",
		Prompt: "Pick the image that feels most like you.",
		Scored: false,
		Options: []Option{
			{Text: "A mountain at dawn", Preference: "mountain"},
			{Text: "A city at night", Preference: "city"},
			{Text: "A forest path", Preference: "forest"},
			{Text: "An open ocean", Preference: "ocean"},
		},
	},
}

// Questions returns the quiz in presentation order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

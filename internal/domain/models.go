package domain

import "time"

// ArchetypeCode identifies one of the four quiz outcomes.
type ArchetypeCode string

const (
	ArchetypeArchitect ArchetypeCode = "A"
	ArchetypeCatalyst  ArchetypeCode = "B"
	ArchetypeGuardian  ArchetypeCode = "C"
	ArchetypeExplorer  ArchetypeCode = "D"
)

// ArchetypeOrder is the fixed tally order; ties resolve to the earliest entry.
var ArchetypeOrder = []ArchetypeCode{
	ArchetypeArchitect,
	ArchetypeCatalyst,
	ArchetypeGuardian,
	ArchetypeExplorer,
}

// Valid reports whether c is one of the four known codes.
func (c ArchetypeCode) Valid() bool {
	for _, code := range ArchetypeOrder {
		if c == code {
			return true
		}
	}
	return false
}

// SuiteID names a themed add-on tracked by its own 21-day record.
type SuiteID string

const (
	SuiteBrain   SuiteID = "brain"
	SuiteQuantum SuiteID = "quantum"
)

// Suites lists every suite in display order.
var Suites = []SuiteID{SuiteBrain, SuiteQuantum}

// Valid reports whether s is a known suite.
func (s SuiteID) Valid() bool {
	return s == SuiteBrain || s == SuiteQuantum
}

// Product is something that can be purchased and unlocked.
type Product string

const (
	ProductReport  Product = "report"
	ProductBrain   Product = "brain"
	ProductQuantum Product = "quantum"
)

// Products lists every purchasable product.
var Products = []Product{ProductReport, ProductBrain, ProductQuantum}

// Valid reports whether p is a known product.
func (p Product) Valid() bool {
	for _, product := range Products {
		if p == product {
			return true
		}
	}
	return false
}

// ProductForSuite maps a suite to the product that unlocks it.
func ProductForSuite(s SuiteID) Product {
	return Product(s)
}

// Profile is an anonymous visitor; every persisted key is scoped to it.
type Profile struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuizSubmission holds one selected option index per quiz question, in order.
type QuizSubmission struct {
	Selections []int `json:"selections"`
}

// QuizOutcome is what a finished quiz yields.
type QuizOutcome struct {
	Archetype        ArchetypeCode         `json:"archetype"`
	VisualPreference string                `json:"visualPreference,omitempty"`
	Tally            map[ArchetypeCode]int `json:"tally"`
}

// DeliveryRecord is the client-facing receipt created after a simulated purchase.
type DeliveryRecord struct {
	Reference string    `json:"reference"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
	Confirmed bool      `json:"confirmed"`
}

// UnlockState is the set of granted products plus the latest delivery record.
type UnlockState struct {
	Flags    map[Product]bool `json:"flags"`
	Delivery *DeliveryRecord  `json:"delivery,omitempty"`
}

// Unlocked reports whether p has been granted.
func (u UnlockState) Unlocked(p Product) bool {
	return u.Flags[p]
}

// Milestone is a one-way progress flag.
type Milestone struct {
	Unlocked bool   `json:"unlocked"`
	Date     string `json:"date,omitempty"`
}

// Milestones holds the day 7/14/21 flags of a challenge record.
type Milestones struct {
	Day7  Milestone `json:"day_7"`
	Day14 Milestone `json:"day_14"`
	Day21 Milestone `json:"day_21"`
}

// ChallengeRecord is the persisted 21-day progress of one suite.
type ChallengeRecord struct {
	Enrolled          bool           `json:"enrolled"`
	Archetype         ArchetypeCode  `json:"archetype,omitempty"`
	StartDate         string         `json:"startDate"`
	CurrentDay        int            `json:"currentDay"`
	SessionsCompleted int            `json:"sessionsCompleted"`
	DaysCompleted     []int          `json:"daysCompleted"`
	BaselineScores    map[string]int `json:"baselineScores,omitempty"`
	Milestones        Milestones     `json:"milestones"`
	LastActivity      string         `json:"lastActivity,omitempty"`
}

// ChallengeResult is one mini-game's contribution to a suite run.
type ChallengeResult struct {
	Label      string   `json:"label"`
	Points     int      `json:"points"`
	ReactionMS *int     `json:"reactionMs,omitempty"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
}

// SuiteStats are the cumulative totals of a suite.
type SuiteStats struct {
	Experience     int    `json:"experience"`
	Streak         int    `json:"streak"`
	LastActiveDate string `json:"lastActiveDate,omitempty"`
	BestScore      int    `json:"bestScore"`
	TotalRuns      int    `json:"totalRuns"`
}

// SuiteOutcome summarizes a completed suite run.
type SuiteOutcome struct {
	Suite      SuiteID           `json:"suite"`
	Results    []ChallengeResult `json:"results"`
	Total      int               `json:"total"`
	Bonus      int               `json:"bonus"`
	Awarded    int               `json:"awarded"`
	Streak     int               `json:"streak"`
	Experience int               `json:"experience"`
	Level      string            `json:"level"`
	LeveledUp  bool              `json:"leveledUp"`
	NewBest    bool              `json:"newBest"`
	Progress   Progress          `json:"progress"`
}

// Progress is the read model of a challenge record.
type Progress struct {
	Suite             SuiteID    `json:"suite"`
	Enrolled          bool       `json:"enrolled"`
	CurrentDay        int        `json:"currentDay"`
	DaysCompleted     []int      `json:"daysCompleted"`
	SessionsCompleted int        `json:"sessionsCompleted"`
	Streak            int        `json:"streak"`
	Milestones        Milestones `json:"milestones"`
	CompletedToday    bool       `json:"completedToday"`
}

// ChecklistDay is the same-day snapshot of the wellness checklist.
type ChecklistDay struct {
	Date      string  `json:"date"`
	Laws      [5]bool `json:"laws"`
	Completed bool    `json:"completed"`
}

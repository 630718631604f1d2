package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"archetype-quiz-service/internal/challenge"
	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/defense"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scheduler"
	"go.uber.org/zap"
)

// PlayRegistry tracks the single live play session of each profile
// (in-memory or Redis).
type PlayRegistry interface {
	Acquire(ctx context.Context, profileID, sessionID string) error
	Release(ctx context.Context, profileID, sessionID string)
	Active(ctx context.Context, profileID string) (string, bool)
}

// ErrSessionFinished is returned for input after the last game ended.
var ErrSessionFinished = errors.New("play session finished")

// Play event types sent to clients.
const (
	EventState         = "state"
	EventResult        = "result"
	EventSuiteComplete = "suiteComplete"
	EventError         = "error"
)

// PlayEvent is one outbound notification of a play session.
type PlayEvent struct {
	Type    string                  `json:"type"`
	Game    string                  `json:"game,omitempty"`
	Index   int                     `json:"index"`
	State   any                     `json:"state,omitempty"`
	Trial   *challenge.Trial        `json:"trial,omitempty"`
	Result  *domain.ChallengeResult `json:"result,omitempty"`
	Outcome *domain.SuiteOutcome    `json:"outcome,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

type gameFactory func(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) challenge.Challenge

// brainGames is the fixed running order of the brain suite.
var brainGames = []gameFactory{
	func(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) challenge.Challenge {
		return challenge.NewConflict(s, rng, p)
	},
	func(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) challenge.Challenge {
		return challenge.NewNBack(s, rng, p)
	},
	func(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) challenge.Challenge {
		return challenge.NewPattern(s, rng, p)
	},
	func(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) challenge.Challenge {
		return challenge.NewReaction(s, rng, p)
	},
	func(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) challenge.Challenge {
		return challenge.NewRuleSwitch(s, rng, p)
	},
	func(s scheduler.Scheduler, rng *rand.Rand, p content.Preset) challenge.Challenge {
		return defense.New(s, rng, defense.ConfigFor(p))
	},
}

// GamesPerRun is the number of games in one brain-suite run.
var GamesPerRun = len(brainGames)

// PlayService opens play sessions for the brain suite.
type PlayService struct {
	tracker  *TrackerService
	training *TrainingService
	registry PlayRegistry
}

func NewPlayService(svc *Services, registry PlayRegistry) *PlayService {
	return &PlayService{tracker: svc.Tracker, training: svc.Training, registry: registry}
}

// Open checks the brain suite is unlocked, enrolls if needed and claims the
// profile's play slot. The session runs on s and reports through emit.
func (p *PlayService) Open(ctx context.Context, profileID string, difficulty content.Difficulty, s scheduler.Scheduler, rng *rand.Rand, emit func(PlayEvent)) (*PlaySession, error) {
	if _, err := p.tracker.Enroll(ctx, profileID, domain.SuiteBrain); err != nil {
		return nil, err
	}
	id := newID()
	if err := p.registry.Acquire(ctx, profileID, id); err != nil {
		return nil, err
	}
	zap.L().Info("play session opened",
		zap.String("profile", profileID),
		zap.String("session", id),
		zap.String("difficulty", string(difficulty)))

	session := &PlaySession{
		ID:        id,
		ProfileID: profileID,
		sched:     s,
		rng:       rng,
		preset:    content.PresetFor(difficulty),
		games:     brainGames,
		emit:      emit,
	}
	session.complete = func(results []domain.ChallengeResult) (domain.SuiteOutcome, error) {
		return p.training.CompleteSuite(ctx, profileID, domain.SuiteBrain, results)
	}
	return session, nil
}

// Close stops the session's timers and frees the profile's play slot.
func (p *PlayService) Close(ctx context.Context, session *PlaySession) {
	session.Stop()
	p.registry.Release(ctx, session.ProfileID, session.ID)
	zap.L().Info("play session closed", zap.String("profile", session.ProfileID), zap.String("session", session.ID))
}

// PlaySession runs the games of one suite in order. It is not safe for
// concurrent use; drive it from the goroutine that owns its scheduler.
type PlaySession struct {
	ID        string
	ProfileID string

	sched    scheduler.Scheduler
	rng      *rand.Rand
	preset   content.Preset
	games    []gameFactory
	emit     func(PlayEvent)
	complete func([]domain.ChallengeResult) (domain.SuiteOutcome, error)

	index    int
	current  challenge.Challenge
	results  []domain.ChallengeResult
	started  bool
	finished bool
}

// Start begins the first game. Further calls are ignored.
func (s *PlaySession) Start() {
	if s.started {
		return
	}
	s.started = true
	s.startGame(0)
}

func (s *PlaySession) startGame(i int) {
	s.index = i
	game := s.games[i](s.sched, s.rng, s.preset)
	s.current = game
	game.OnDone(func() { s.gameDone(game) })
	game.Start()
	s.publishState()
}

func (s *PlaySession) gameDone(game challenge.Challenge) {
	res := game.Result()
	s.results = append(s.results, res)
	s.send(PlayEvent{Type: EventResult, Game: game.Name(), Index: s.index, Result: &res})

	next := s.index + 1
	if next < len(s.games) {
		s.startGame(next)
		return
	}

	s.finished = true
	s.current = nil
	outcome, err := s.complete(s.results)
	if err != nil {
		zap.L().Warn("suite completion failed", zap.String("profile", s.ProfileID), zap.Error(err))
		s.send(PlayEvent{Type: EventError, Error: err.Error()})
		return
	}
	s.send(PlayEvent{Type: EventSuiteComplete, Index: s.index, Outcome: &outcome})
}

// Handle forwards one input to the running game.
func (s *PlaySession) Handle(in challenge.Input) error {
	if s.finished {
		return ErrSessionFinished
	}
	if s.current == nil {
		return fmt.Errorf("no game running: %w", challenge.ErrNotAwaiting)
	}
	game := s.current
	tr, err := game.Handle(in)
	if err != nil {
		return err
	}
	if game == s.current {
		s.send(PlayEvent{Type: EventState, Game: game.Name(), Index: s.index, State: game.Snapshot(), Trial: &tr})
	}
	return nil
}

// PublishState emits the running game's snapshot.
func (s *PlaySession) PublishState() { s.publishState() }

func (s *PlaySession) publishState() {
	if s.current == nil {
		return
	}
	s.send(PlayEvent{Type: EventState, Game: s.current.Name(), Index: s.index, State: s.current.Snapshot()})
}

// Results returns the results of the games finished so far.
func (s *PlaySession) Results() []domain.ChallengeResult {
	return append([]domain.ChallengeResult{}, s.results...)
}

// Current returns the running game, or nil.
func (s *PlaySession) Current() challenge.Challenge { return s.current }

// Finished reports whether every game has ended.
func (s *PlaySession) Finished() bool { return s.finished }

// Stop cancels the running game's timers.
func (s *PlaySession) Stop() {
	if s.current != nil {
		s.current.Stop()
	}
}

func (s *PlaySession) send(ev PlayEvent) {
	if s.emit != nil {
		s.emit(ev)
	}
}

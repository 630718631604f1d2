// Package defense implements Neural Defense, the real-time falling-shapes
// game: objects fall every animation frame, the player slides a shield under
// them and fires at the best target in range.
package defense

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"archetype-quiz-service/internal/challenge"
	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scheduler"
	"archetype-quiz-service/internal/scoring"
	"github.com/montanaflynn/stats"
)

// Playfield geometry, in logical pixels.
const (
	Width         = 400.0
	Height        = 600.0
	SpawnMargin   = 20.0
	FireRange     = 60.0
	OffsetPenalty = 0.5
	Waves         = 3
)

// Kind is the shape of a falling object.
type Kind string

const (
	KindTriangle Kind = "triangle"
	KindSquare   Kind = "square"
	KindCircle   Kind = "circle"
	KindStar     Kind = "star"
)

var ordinaryKinds = []Kind{KindTriangle, KindSquare, KindCircle}

// Points returns the value of destroying an object of kind k.
func (k Kind) Points() int {
	if k == KindStar {
		return scoring.DefenseStarPoints
	}
	return scoring.DefenseShapePoints
}

// Object is a falling target.
type Object struct {
	ID        int       `json:"id"`
	Kind      Kind      `json:"kind"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Speed     float64   `json:"-"`
	SpawnedAt time.Time `json:"-"`
}

// EffectKind names a transient visual or audio cue.
type EffectKind string

const (
	EffectBurst     EffectKind = "burst"
	EffectMissFlash EffectKind = "miss"
	EffectSoundHit  EffectKind = "sound:hit"
	EffectSoundMiss EffectKind = "sound:miss"
	EffectWave      EffectKind = "wave"
)

// EffectTTL is how long a transient effect lives.
const EffectTTL = 500 * time.Millisecond

// Effect is a decaying cue; clients render it and the game forgets it.
type Effect struct {
	Kind EffectKind    `json:"kind"`
	X    float64       `json:"x"`
	Y    float64       `json:"y"`
	TTL  time.Duration `json:"ttl"`
}

// Config holds wave timing and speeds.
type Config struct {
	WaveDuration   time.Duration
	Pause          time.Duration
	SpawnIntervals [Waves]time.Duration
	FallSpeeds     [Waves]float64 // pixels per second
	StarChance     float64
}

// ConfigFor derives the game configuration from a difficulty preset.
func ConfigFor(p content.Preset) Config {
	factor := p.DefenseSpeedFactor
	if factor <= 0 {
		factor = 1
	}
	return Config{
		WaveDuration:   p.DefenseWaveDuration,
		Pause:          3 * time.Second,
		SpawnIntervals: [Waves]time.Duration{1200 * time.Millisecond, 900 * time.Millisecond, 650 * time.Millisecond},
		FallSpeeds:     [Waves]float64{120 * factor, 170 * factor, 230 * factor},
		StarChance:     0.1,
	}
}

// State is the client view of the game.
type State struct {
	Phase   challenge.Phase `json:"phase"`
	Wave    int             `json:"wave"`
	Objects []Object        `json:"objects"`
	Effects []Effect        `json:"effects"`
	ShieldX float64         `json:"shieldX"`
	Score   int             `json:"score"`
	Hits    int             `json:"hits"`
	Misses  int             `json:"misses"`
}

// Summary is reported when the game completes.
type Summary struct {
	Score          int      `json:"score"`
	Hits           int      `json:"hits"`
	Misses         int      `json:"misses"`
	Shots          int      `json:"shots"`
	Accuracy       float64  `json:"accuracy"`
	MeanReactionMS *float64 `json:"meanReactionMs,omitempty"`
}

// Game is the Neural Defense state machine:
// ready -> playing (wave 1..3) -> paused between waves -> done.
type Game struct {
	cfg       Config
	rng       *rand.Rand
	timers    *scheduler.Group
	waveTimer *scheduler.Group

	phase   challenge.Phase
	wave    int
	objects []*Object
	effects []Effect
	shieldX float64
	nextID  int

	score     int
	hits      int
	misses    int
	shots     int
	latencies []float64
	onDone    func()
}

func New(s scheduler.Scheduler, rng *rand.Rand, cfg Config) *Game {
	return &Game{
		cfg:       cfg,
		rng:       rng,
		timers:    scheduler.NewGroup(s),
		waveTimer: scheduler.NewGroup(s),
		phase:     challenge.PhaseReady,
		shieldX:   Width / 2,
	}
}

func (g *Game) Name() string { return "Neural Defense" }
func (g *Game) Phase() challenge.Phase { return g.phase }
func (g *Game) Score() int { return g.score }
func (g *Game) Wave() int { return g.wave }
func (g *Game) OnDone(fn func()) { g.onDone = fn }
func (g *Game) Objects() []Object { return g.objectsCopy() }

func (g *Game) Start() {
	if g.phase != challenge.PhaseReady {
		return
	}
	g.timers.Frame(g.update)
	g.startWave(1)
}

// Stop cancels every timer the game owns.
func (g *Game) Stop() {
	g.waveTimer.Stop()
	g.timers.Stop()
}

func (g *Game) startWave(n int) {
	g.wave = n
	g.phase = challenge.PhasePlaying
	g.addEffect(EffectWave, Width/2, Height/2)
	g.waveTimer.Every(g.cfg.SpawnIntervals[n-1], g.spawn)
	g.waveTimer.After(g.cfg.WaveDuration, g.endWave)
}

func (g *Game) endWave() {
	g.waveTimer.Stop()
	// objects still in flight when the wave ends are neither hits nor misses
	clear(g.objects)
	g.objects = g.objects[:0]
	if g.wave >= Waves {
		g.complete()
		return
	}
	g.phase = challenge.PhasePaused
	next := g.wave + 1
	g.timers.After(g.cfg.Pause, func() { g.startWave(next) })
}

func (g *Game) complete() {
	g.Stop()
	g.phase = challenge.PhaseDone
	if g.onDone != nil {
		g.onDone()
	}
}

func (g *Game) spawn() {
	kind := ordinaryKinds[g.rng.Intn(len(ordinaryKinds))]
	if g.rng.Float64() < g.cfg.StarChance {
		kind = KindStar
	}
	x := SpawnMargin + g.rng.Float64()*(Width-2*SpawnMargin)
	g.spawnAt(x, kind)
}

func (g *Game) spawnAt(x float64, kind Kind) *Object {
	g.nextID++
	obj := &Object{
		ID:        g.nextID,
		Kind:      kind,
		X:         x,
		Y:         0,
		Speed:     g.cfg.FallSpeeds[max(g.wave, 1)-1],
		SpawnedAt: g.timers.Now(),
	}
	g.objects = append(g.objects, obj)
	return obj
}

// update runs once per animation frame.
func (g *Game) update(dt time.Duration) {
	if g.phase == challenge.PhasePlaying {
		live := g.objects[:0]
		for _, obj := range g.objects {
			obj.Y += obj.Speed * dt.Seconds()
			if obj.Y >= Height {
				g.misses++
				g.addEffect(EffectMissFlash, obj.X, Height)
				g.addEffect(EffectSoundMiss, obj.X, Height)
				continue
			}
			live = append(live, obj)
		}
		for i := len(live); i < len(g.objects); i++ {
			g.objects[i] = nil
		}
		g.objects = live
	}

	effects := g.effects[:0]
	for _, e := range g.effects {
		e.TTL -= dt
		if e.TTL > 0 {
			effects = append(effects, e)
		}
	}
	g.effects = effects
}

func (g *Game) addEffect(kind EffectKind, x, y float64) {
	g.effects = append(g.effects, Effect{Kind: kind, X: x, Y: y, TTL: EffectTTL})
}

// MoveShield places the shield at x, clamped to the playfield.
func (g *Game) MoveShield(x float64) {
	g.shieldX = math.Max(0, math.Min(Width, x))
}

// ShieldX returns the shield position.
func (g *Game) ShieldX() float64 { return g.shieldX }

// Shot is the outcome of one fire action.
type Shot struct {
	Hit        bool
	Target     *Object
	Points     int
	ReactionMS int
}

// Fire destroys the best target within FireRange of the shield: the one with
// the largest y - |dx|*OffsetPenalty. With nothing in range nothing happens.
func (g *Game) Fire() (Shot, error) {
	if g.phase != challenge.PhasePlaying {
		return Shot{}, challenge.ErrNotAwaiting
	}
	g.shots++

	best := -1
	bestScore := math.Inf(-1)
	for i, obj := range g.objects {
		dx := math.Abs(obj.X - g.shieldX)
		if dx > FireRange {
			continue
		}
		if closeness := obj.Y - dx*OffsetPenalty; closeness > bestScore {
			best, bestScore = i, closeness
		}
	}
	if best < 0 {
		return Shot{}, nil
	}

	target := g.objects[best]
	g.objects = slices.Delete(g.objects, best, best+1)
	latency := g.timers.Now().Sub(target.SpawnedAt)
	points := target.Kind.Points()

	g.score += points
	g.hits++
	g.latencies = append(g.latencies, float64(latency/time.Millisecond))
	g.addEffect(EffectBurst, target.X, target.Y)
	g.addEffect(EffectSoundHit, target.X, target.Y)

	return Shot{Hit: true, Target: target, Points: points, ReactionMS: int(latency / time.Millisecond)}, nil
}

func (g *Game) Handle(in challenge.Input) (challenge.Trial, error) {
	switch in.Action {
	case challenge.ActionMove:
		g.MoveShield(float64(in.Choice))
		return challenge.Trial{Note: "moved"}, nil
	case challenge.ActionFire:
		shot, err := g.Fire()
		if err != nil {
			return challenge.Trial{}, err
		}
		tr := challenge.Trial{Index: g.shots - 1, Correct: shot.Hit, Points: shot.Points}
		if shot.Hit {
			ms := shot.ReactionMS
			tr.ReactionMS = &ms
		}
		return tr, nil
	default:
		return challenge.Trial{}, challenge.ErrUnsupportedInput
	}
}

// Summary aggregates accuracy and mean reaction latency over hits.
func (g *Game) Summary() Summary {
	sum := Summary{Score: g.score, Hits: g.hits, Misses: g.misses, Shots: g.shots}
	if total := g.hits + g.misses; total > 0 {
		sum.Accuracy = float64(g.hits) / float64(total)
	}
	if mean, err := stats.Mean(g.latencies); err == nil {
		sum.MeanReactionMS = &mean
	}
	return sum
}

func (g *Game) Result() domain.ChallengeResult {
	sum := g.Summary()
	res := domain.ChallengeResult{Label: g.Name(), Points: sum.Score}
	if sum.Hits+sum.Misses > 0 {
		acc := sum.Accuracy
		res.Accuracy = &acc
	}
	if sum.MeanReactionMS != nil {
		ms := int(math.Round(*sum.MeanReactionMS))
		res.ReactionMS = &ms
	}
	return res
}

func (g *Game) Snapshot() any {
	return State{
		Phase:   g.phase,
		Wave:    g.wave,
		Objects: g.objectsCopy(),
		Effects: append([]Effect{}, g.effects...),
		ShieldX: g.shieldX,
		Score:   g.score,
		Hits:    g.hits,
		Misses:  g.misses,
	}
}

func (g *Game) objectsCopy() []Object {
	out := make([]Object, len(g.objects))
	for i, obj := range g.objects {
		out[i] = *obj
	}
	return out
}

var _ challenge.Challenge = (*Game)(nil)

package defense

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"archetype-quiz-service/internal/challenge"
	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/scheduler"
)

var epoch = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

// quietConfig never spawns on its own so tests can place objects explicitly.
func quietConfig() Config {
	cfg := ConfigFor(content.PresetFor(content.DifficultyNormal))
	for i := range cfg.SpawnIntervals {
		cfg.SpawnIntervals[i] = time.Hour
	}
	return cfg
}

func newGame(cfg Config) (*Game, *scheduler.Virtual) {
	s := scheduler.NewVirtual(epoch)
	g := New(s, rand.New(rand.NewSource(3)), cfg)
	g.Start()
	return g, s
}

func TestMissIsCountedOnceAndRemoved(t *testing.T) {
	g, s := newGame(quietConfig())
	obj := g.spawnAt(100, KindSquare)

	// 120 px/s needs five seconds to cross 600 px
	s.Advance(4 * time.Second)
	if g.misses != 0 || len(g.Objects()) != 1 {
		t.Fatalf("object should still be falling, misses=%d objects=%d", g.misses, len(g.Objects()))
	}
	s.Advance(2 * time.Second)
	if g.misses != 1 {
		t.Fatalf("expected one miss, got %d", g.misses)
	}
	for _, o := range g.Objects() {
		if o.ID == obj.ID {
			t.Fatalf("missed object must be removed")
		}
	}
	s.Advance(5 * time.Second)
	if g.misses != 1 {
		t.Fatalf("miss must be counted once, got %d", g.misses)
	}
}

func TestFireWithNothingInRange(t *testing.T) {
	g, s := newGame(quietConfig())
	g.MoveShield(0)
	g.spawnAt(300, KindCircle)
	s.Advance(time.Second)

	shot, err := g.Fire()
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if shot.Hit || g.Score() != 0 || len(g.Objects()) != 1 {
		t.Fatalf("fire out of range must do nothing, shot=%+v score=%d", shot, g.Score())
	}
}

func TestFirePicksBestTarget(t *testing.T) {
	g, s := newGame(quietConfig())
	g.MoveShield(200)
	low := g.spawnAt(250, KindSquare)
	s.Advance(time.Second)
	high := g.spawnAt(200, KindStar)
	s.Advance(500 * time.Millisecond)

	// low: y=180, dx=50 -> 155; high: y=60, dx=0 -> 60
	shot, err := g.Fire()
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if !shot.Hit || shot.Target.ID != low.ID {
		t.Fatalf("expected to hit the lower object, got %+v", shot)
	}
	if shot.Points != 10 || shot.ReactionMS != 1500 {
		t.Fatalf("unexpected shot %+v", shot)
	}

	shot, _ = g.Fire()
	if !shot.Hit || shot.Target.ID != high.ID || shot.Points != 15 {
		t.Fatalf("expected the star next, got %+v", shot)
	}
	if g.Score() != 25 {
		t.Fatalf("expected score 25, got %d", g.Score())
	}
}

func TestMoveShieldClamps(t *testing.T) {
	g, _ := newGame(quietConfig())
	g.MoveShield(-50)
	if g.ShieldX() != 0 {
		t.Fatalf("expected clamp to 0, got %v", g.ShieldX())
	}
	g.MoveShield(Width + 10)
	if g.ShieldX() != Width {
		t.Fatalf("expected clamp to width, got %v", g.ShieldX())
	}
}

func TestEffectsDecay(t *testing.T) {
	g, s := newGame(quietConfig())
	g.MoveShield(100)
	g.spawnAt(100, KindCircle)
	s.Advance(100 * time.Millisecond)
	if _, err := g.Fire(); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if len(g.effects) == 0 {
		t.Fatalf("expected hit effects")
	}
	s.Advance(EffectTTL + 100*time.Millisecond)
	if len(g.effects) != 0 {
		t.Fatalf("expected effects to decay, got %+v", g.effects)
	}
}

func TestWavesPauseAndComplete(t *testing.T) {
	cfg := quietConfig()
	g, s := newGame(cfg)
	done := 0
	g.OnDone(func() { done++ })

	if g.Wave() != 1 || g.Phase() != challenge.PhasePlaying {
		t.Fatalf("expected wave 1 playing, got %d %s", g.Wave(), g.Phase())
	}
	s.Advance(cfg.WaveDuration)
	if g.Phase() != challenge.PhasePaused {
		t.Fatalf("expected pause between waves, got %s", g.Phase())
	}
	if _, err := g.Fire(); !errors.Is(err, challenge.ErrNotAwaiting) {
		t.Fatalf("fire during pause must be rejected, got %v", err)
	}
	s.Advance(cfg.Pause)
	if g.Wave() != 2 || g.Phase() != challenge.PhasePlaying {
		t.Fatalf("expected wave 2, got %d %s", g.Wave(), g.Phase())
	}
	s.Advance(cfg.WaveDuration + cfg.Pause + cfg.WaveDuration)
	if g.Phase() != challenge.PhaseDone || done != 1 {
		t.Fatalf("expected completion once, phase=%s done=%d", g.Phase(), done)
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", s.Pending())
	}
}

func TestSpawnsUseWaveSpeed(t *testing.T) {
	cfg := ConfigFor(content.PresetFor(content.DifficultyHard))
	g, s := newGame(cfg)
	s.Advance(cfg.SpawnIntervals[0])
	objs := g.Objects()
	if len(objs) != 1 {
		t.Fatalf("expected one spawned object, got %d", len(objs))
	}
	if objs[0].X < SpawnMargin || objs[0].X > Width-SpawnMargin {
		t.Fatalf("spawn outside margins: %v", objs[0].X)
	}
	if g.objects[0].Speed != cfg.FallSpeeds[0] {
		t.Fatalf("expected wave-1 speed %v, got %v", cfg.FallSpeeds[0], g.objects[0].Speed)
	}
}

func TestResultSummary(t *testing.T) {
	g, s := newGame(quietConfig())
	g.MoveShield(100)
	g.spawnAt(100, KindSquare)
	g.spawnAt(300, KindSquare)
	s.Advance(200 * time.Millisecond)
	if _, err := g.Fire(); err != nil {
		t.Fatalf("fire: %v", err)
	}
	s.Advance(6 * time.Second)

	res := g.Result()
	if res.Points != 10 || res.Accuracy == nil || *res.Accuracy != 0.5 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.ReactionMS == nil || *res.ReactionMS != 200 {
		t.Fatalf("expected 200ms mean reaction, got %v", res.ReactionMS)
	}
}

func TestRemovedObjectsAreNotRetained(t *testing.T) {
	g, s := newGame(quietConfig())
	g.MoveShield(200)
	g.spawnAt(200, KindSquare)
	g.spawnAt(210, KindCircle)
	g.spawnAt(190, KindTriangle)
	s.Advance(time.Second)

	if _, err := g.Fire(); err != nil {
		t.Fatalf("fire: %v", err)
	}
	backing := g.objects[:cap(g.objects)]
	for i := len(g.objects); i < len(backing); i++ {
		if backing[i] != nil {
			t.Fatalf("slot %d still references a fired object", i)
		}
	}

	g.endWave()
	backing = g.objects[:cap(g.objects)]
	for i, obj := range backing {
		if obj != nil {
			t.Fatalf("slot %d still references an object after the wave ended", i)
		}
	}
}

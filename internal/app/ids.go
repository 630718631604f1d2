package app

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

func newID() string { return uuid.NewString() }

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// referenceGenerator produces delivery references of the form ARC-<year>-XXXXXX.
type referenceGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newReferenceGenerator(seed int64) *referenceGenerator {
	return &referenceGenerator{rnd: rand.New(rand.NewSource(seed))}
}

func (g *referenceGenerator) next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = referenceAlphabet[g.rnd.Intn(len(referenceAlphabet))]
	}
	return fmt.Sprintf("ARC-%d-%s", now.Year(), suffix)
}

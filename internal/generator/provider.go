package generator

import (
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/ajitpratap0/kotoba/internal/corpus"
)

// NewRand returns the PCG stream for seed. It is the same stream
// GenerateBatch uses for index 0.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// SeedOrRandom returns seed, or a fresh random seed when seed is 0.
func SeedOrRandom(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}

// Provider hands out the generator for a holder's current corpus snapshot.
// The generator is rebuilt only after the snapshot changes.
type Provider struct {
	corpora *corpus.Holder
	logger  *slog.Logger
	cached  atomic.Pointer[Generator]
}

// NewProvider creates a provider over h.
func NewProvider(h *corpus.Holder, logger *slog.Logger) *Provider {
	return &Provider{corpora: h, logger: logger}
}

// Get returns a generator for the current snapshot.
func (p *Provider) Get() *Generator {
	c := p.corpora.Load()
	if g := p.cached.Load(); g != nil && g.corpus == c {
		return g
	}
	g := New(c, p.logger)
	p.cached.Store(g)
	return g
}

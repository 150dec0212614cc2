package randblock

import (
	"math/rand"
	"time"
)

// Generator produces blocks of uniformly distributed random bytes. It
// is not safe for concurrent use; each worker owns its own Generator.
type Generator struct {
	rnd *rand.Rand
}

// New creates a generator seeded from the wall clock.
func New() *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Fill overwrites every byte of buf with fresh random data.
func (g *Generator) Fill(buf []byte) {
	g.rnd.Read(buf) // Rand.Read never returns an error
}

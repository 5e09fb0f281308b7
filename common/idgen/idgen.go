package idgen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

// DefaultPrefix is used when GenerateUniqueID is called with an empty prefix
const DefaultPrefix = "ID"

// maxSuffix is the upper bound of the random suffix, inclusive
const maxSuffix = 99999

// Generator builds display identifiers of the form PREFIX + YYYY + NNNNN.
// The random suffix can collide; these are labels for humans, never keys.
type Generator struct {
	Now  func() time.Time
	Rand io.Reader
}

// NewGenerator returns a Generator using the wall clock and crypto/rand
func NewGenerator() *Generator {
	return &Generator{Now: time.Now, Rand: rand.Reader}
}

// Generate returns prefix + current year + zero-padded number in [1, 99999]
func (g *Generator) Generate(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s%04d%05d", prefix, g.Now().Year(), g.suffix())
}

func (g *Generator) suffix() int64 {
	n, err := rand.Int(g.Rand, big.NewInt(maxSuffix))
	if err != nil {
		// crypto/rand does not fail on supported platforms; fall back to the clock
		return g.Now().UnixNano()%maxSuffix + 1
	}
	return n.Int64() + 1
}

var defaultGenerator = NewGenerator()

// GenerateUniqueID returns prefix + current year + a zero-padded five-digit
// number, for example "PAT202604217". An empty prefix becomes "ID".
func GenerateUniqueID(prefix string) string {
	return defaultGenerator.Generate(prefix)
}

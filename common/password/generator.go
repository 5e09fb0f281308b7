package password

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/hms-services/common/validator"
)

// Character classes. Specials are limited to the set the strength rules accept.
const (
	upperChars   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars   = "abcdefghijkmnopqrstuvwxyz"
	digitChars   = "23456789"
	specialChars = "@$!%*?&"
	allChars     = upperChars + lowerChars + digitChars + specialChars
)

// DefaultLength is the length of generated passwords when none is configured
const DefaultLength = 12

// Generator creates random passwords that always satisfy
// validator.ValidateStrongPassword.
type Generator struct {
	Length int
	Rand   io.Reader
}

// NewGenerator returns a generator backed by crypto/rand. Lengths below the
// minimum strong length are raised to it.
func NewGenerator(length int) *Generator {
	if length < validator.MinPasswordLength {
		length = DefaultLength
	}
	return &Generator{Length: length, Rand: rand.Reader}
}

// Generate returns a new password with at least one character of each class
func (g *Generator) Generate() (string, error) {
	length := g.Length
	if length < validator.MinPasswordLength {
		length = validator.MinPasswordLength
	}

	buf := make([]byte, 0, length)
	for _, set := range []string{upperChars, lowerChars, digitChars, specialChars} {
		c, err := g.pick(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < length {
		c, err := g.pick(allChars)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	// Fisher-Yates so the guaranteed characters are not always up front
	for i := len(buf) - 1; i > 0; i-- {
		j, err := g.intn(i + 1)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}

	pw := string(buf)
	if errs := validator.ValidateStrongPassword(pw); len(errs) > 0 {
		return "", fmt.Errorf("generated password failed strength check: %v", errs)
	}
	return pw, nil
}

func (g *Generator) pick(set string) (byte, error) {
	i, err := g.intn(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.Rand, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read randomness: %w", err)
	}
	return int(v.Int64()), nil
}

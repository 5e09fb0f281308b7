package idgen

import (
	"bytes"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueIDFormat(t *testing.T) {
	year := strconv.Itoa(time.Now().Year())

	tests := []struct {
		name    string
		prefix  string
		pattern string
	}{
		{"Patient prefix", "PAT", `^PAT` + year + `\d{5}$`},
		{"Default prefix", "", `^ID` + year + `\d{5}$`},
		{"Long prefix", "APPT-", `^APPT-` + year + `\d{5}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := regexp.MustCompile(tt.pattern)
			for i := 0; i < 200; i++ {
				id := GenerateUniqueID(tt.prefix)
				require.Regexp(t, re, id)

				n, err := strconv.Atoi(id[len(id)-5:])
				require.NoError(t, err)
				assert.GreaterOrEqual(t, n, 1)
				assert.LessOrEqual(t, n, 99999)
			}
		})
	}
}

func TestGeneratorWithFixedSources(t *testing.T) {
	fixed := time.Date(2031, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entropy  []byte
		expected string
	}{
		// rand.Int reads three big-endian bytes for a 17-bit bound
		{"Minimum suffix", bytes.Repeat([]byte{0}, 3), "PAT203100001"},
		{"Small value", []byte{0x00, 0x00, 0x29}, "PAT203100042"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Generator{
				Now:  func() time.Time { return fixed },
				Rand: bytes.NewReader(tt.entropy),
			}
			assert.Equal(t, tt.expected, g.Generate("PAT"))
		})
	}
}

package checkout

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numberPattern = regexp.MustCompile(`^[A-Z]+-[0-9A-Z]+-[0-9A-Z]{4}$`)

func TestNumberGeneratorFormat(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g := &NumberGenerator{Prefix: "ord", Now: func() time.Time { return at }}

	number, err := g.Next()
	require.NoError(t, err)

	assert.Regexp(t, numberPattern, number)
	parts := strings.Split(number, "-")
	assert.Equal(t, "ORD", parts[0])
	assert.Equal(t, strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36)), parts[1])
}

func TestNumberGeneratorDefaultsPrefix(t *testing.T) {
	number, err := (&NumberGenerator{}).Next()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(number, "ORD-"))
}

func TestNumberGeneratorSuffixVaries(t *testing.T) {
	g := NewNumberGenerator("ORD")
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		n, err := g.Next()
		require.NoError(t, err)
		seen[n] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestNumberGeneratorSurfacesEntropyFailure(t *testing.T) {
	g := &NumberGenerator{Rand: bytes.NewReader(nil)}
	_, err := g.Next()
	assert.Error(t, err)
}

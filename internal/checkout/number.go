package checkout

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	defaultNumberPrefix = "ORD"
	numberSuffixLen     = 4
	base36Alphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NumberGenerator builds human readable order numbers of the form
// PREFIX-<base36 unix millis>-<4 random base36 chars>. Numbers are only
// unlikely to collide; the unique index on orderNumber is the backstop.
type NumberGenerator struct {
	Prefix string
	Now    func() time.Time
	Rand   io.Reader
}

func NewNumberGenerator(prefix string) *NumberGenerator {
	return &NumberGenerator{Prefix: prefix, Now: time.Now, Rand: rand.Reader}
}

func (g *NumberGenerator) Next() (string, error) {
	prefix := strings.ToUpper(strings.TrimSpace(g.Prefix))
	if prefix == "" {
		prefix = defaultNumberPrefix
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	source := g.Rand
	if source == nil {
		source = rand.Reader
	}

	stamp := strings.ToUpper(strconv.FormatInt(now().UnixMilli(), 36))

	var suffix strings.Builder
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < numberSuffixLen; i++ {
		n, err := rand.Int(source, max)
		if err != nil {
			return "", err
		}
		suffix.WriteByte(base36Alphabet[n.Int64()])
	}

	return prefix + "-" + stamp + "-" + suffix.String(), nil
}

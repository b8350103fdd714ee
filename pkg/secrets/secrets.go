// Package secrets generates the random values injected into a freshly
// generated project.
package secrets

import (
	"crypto/rand"
	"io"
	"math/big"
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
)

// DebugValue replaces generated credentials when the project is rendered
// in debug mode.
const DebugValue = "debug"

const (
	digits  = "0123456789"
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// ASCII punctuation without ' " \ and $, which break unquoted
	// environment files and shell expansion.
	punctuation = "!#%&()*+,-./:;<=>?@[]^_`{|}~"
)

// Charset selects the symbol classes a generated string draws from.
type Charset struct {
	Digits      bool
	Letters     bool
	Punctuation bool
}

// Symbols returns the alphabet described by c.
func (c Charset) Symbols() string {
	var b strings.Builder
	if c.Digits {
		b.WriteString(digits)
	}
	if c.Letters {
		b.WriteString(letters)
	}
	if c.Punctuation {
		b.WriteString(punctuation)
	}
	return b.String()
}

// Common presets.
var (
	UserCharset     = Charset{Letters: true}
	PasswordCharset = Charset{Digits: true, Letters: true}
)

// Generator produces random strings from a cryptographically secure source.
type Generator struct {
	source    io.Reader
	available bool
}

// New returns a Generator reading from crypto/rand.
func New() *Generator {
	return NewWithSource(rand.Reader)
}

// NewWithSource returns a Generator reading from source. The source is
// probed once; if it cannot produce bytes the generator is degraded and
// every call to String fails with ErrNoSecureRandom.
func NewWithSource(source io.Reader) *Generator {
	g := &Generator{source: source}
	var probe [1]byte
	_, err := io.ReadFull(source, probe[:])
	g.available = err == nil
	return g
}

// Available reports whether a secure random source was found.
func (g *Generator) Available() bool {
	return g.available
}

// String returns a string of exactly length symbols drawn uniformly from
// charset.
func (g *Generator) String(length int, charset Charset) (string, error) {
	if !g.available {
		return "", errors.New(errors.ErrNoSecureRandom, "no secure random source available")
	}
	if length < 0 {
		return "", errors.Newf(errors.ErrInvalidInput, "negative length %d", length)
	}
	symbols := charset.Symbols()
	if symbols == "" {
		return "", errors.New(errors.ErrInvalidInput, "charset selects no symbols")
	}

	max := big.NewInt(int64(len(symbols)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(g.source, max)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrNoSecureRandom, "reading random source")
		}
		out[i] = symbols[n.Int64()]
	}
	return string(out), nil
}

// User returns a 32 letter user name.
func (g *Generator) User() (string, error) {
	return g.String(32, UserCharset)
}

// Password returns a 64 symbol password of digits and letters.
func (g *Generator) Password() (string, error) {
	return g.String(64, PasswordCharset)
}

// SecretKey returns a 64 symbol application secret key.
func (g *Generator) SecretKey() (string, error) {
	return g.String(64, PasswordCharset)
}

// AdminSlug returns a 32 symbol URL slug.
func (g *Generator) AdminSlug() (string, error) {
	return g.String(32, PasswordCharset)
}

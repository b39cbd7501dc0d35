// Package generator produces random passwords from configurable character
// classes. Randomness comes from crypto/rand, never math/rand.
package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	lower     = "abcdefghijklmnopqrstuvwxyz"
	upper     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()-_=+[]{}|;:,.<>?"
	ambiguous = "{}[]()/\\'\"`~,;:.<>"
)

var ErrEmptyPool = errors.New("generator: no character classes selected")

// Options selects which character classes participate and how long the
// result is. Each selected class is guaranteed at least one character in
// the output when length permits.
type Options struct {
	Length           int
	IncludeLowercase bool
	IncludeUppercase bool
	IncludeNumbers   bool
	IncludeSymbols   bool
	ExcludeAmbiguous bool
}

// DefaultOptions is a reasonable starting point for generated credentials.
func DefaultOptions() Options {
	return Options{
		Length:           16,
		IncludeLowercase: true,
		IncludeUppercase: true,
		IncludeNumbers:   true,
		IncludeSymbols:   true,
	}
}

// Generate builds a random password per opt. The result contains at least
// one character from every selected class, with remaining positions drawn
// from the combined pool and the whole thing shuffled.
func Generate(opt Options) (string, error) {
	clean := func(s string) string {
		if !opt.ExcludeAmbiguous {
			return s
		}
		var b strings.Builder
		for _, c := range s {
			if !strings.ContainsRune(ambiguous, c) {
				b.WriteRune(c)
			}
		}
		return b.String()
	}

	var pool string
	var must []byte

	for _, class := range []struct {
		enabled bool
		chars   string
	}{
		{opt.IncludeLowercase, lower},
		{opt.IncludeUppercase, upper},
		{opt.IncludeNumbers, digits},
		{opt.IncludeSymbols, symbols},
	} {
		if !class.enabled {
			continue
		}
		chars := clean(class.chars)
		pool += chars
		c, err := randomChar(chars)
		if err != nil {
			return "", err
		}
		must = append(must, c)
	}

	if pool == "" {
		return "", ErrEmptyPool
	}

	for len(must) < opt.Length {
		c, err := randomChar(pool)
		if err != nil {
			return "", err
		}
		must = append(must, c)
	}
	must = must[:opt.Length]

	if err := shuffle(must); err != nil {
		return "", err
	}

	return string(must), nil
}

func randomChar(s string) (byte, error) {
	i, err := randomInt(len(s))
	if err != nil {
		return 0, err
	}
	return s[i], nil
}

// shuffle is a Fisher-Yates pass so the mandatory class characters do not
// cluster at the front.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

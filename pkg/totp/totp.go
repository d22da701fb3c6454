// Package totp generates RFC 6238 time-based one-time passwords.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultDigits = 6
	DefaultPeriod = 30 * time.Second
	// MinSecretBytes is the shortest decoded secret accepted (80 bits).
	MinSecretBytes = 10
)

var (
	ErrEmptySecret    = errors.New("totp: empty secret")
	ErrShortSecret    = fmt.Errorf("totp: secret shorter than %d bytes", MinSecretBytes)
	ErrInvalidSecret  = errors.New("totp: secret is not valid base32")
	ErrTimeBeforeUnix = errors.New("totp: time before unix epoch")
)

// Options tunes code generation. Zero fields take the defaults.
type Options struct {
	Digits int
	Period time.Duration
}

// Generate returns the 6-digit code for t with a 30 second step.
func Generate(secret []byte, t time.Time) (string, error) {
	return GenerateWith(secret, t, Options{})
}

// GenerateWith returns the code for t using HMAC-SHA1.
func GenerateWith(secret []byte, t time.Time, opts Options) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	if len(secret) < MinSecretBytes {
		return "", ErrShortSecret
	}
	if t.Unix() < 0 {
		return "", ErrTimeBeforeUnix
	}
	digits := opts.Digits
	if digits <= 0 {
		digits = DefaultDigits
	}
	period := int64(opts.Period / time.Second)
	if period <= 0 {
		period = int64(DefaultPeriod / time.Second)
	}
	return hotp(secret, uint64(t.Unix()/period), digits), nil
}

func hotp(secret []byte, counter uint64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := uint64(sum[offset]&0x7f)<<24 |
		uint64(sum[offset+1])<<16 |
		uint64(sum[offset+2])<<8 |
		uint64(sum[offset+3])

	mod := uint64(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", digits, bin%mod)
}

// DecodeSecret decodes a base32 secret as shown by authenticator apps.
// Case, spaces and padding are ignored.
func DecodeSecret(s string) ([]byte, error) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	s = strings.TrimRight(s, "=")
	if s == "" {
		return nil, ErrEmptySecret
	}
	b, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(b) < MinSecretBytes {
		return nil, ErrShortSecret
	}
	return b, nil
}

package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

const idSuffixBytes = 6

// NewID returns a sortable session identifier.
func NewID() (string, error) {
	return NewIDWithRand(time.Now().UTC(), rand.Reader)
}

func NewIDWithRand(now time.Time, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("random reader is nil")
	}
	buf := make([]byte, idSuffixBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return FormatID(now, hex.EncodeToString(buf)), nil
}

func FormatID(now time.Time, suffix string) string {
	return "s" + now.UTC().Format("20060102T150405Z") + "-" + suffix
}

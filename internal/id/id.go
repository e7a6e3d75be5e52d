package id

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces a new identifier on each call.
type Generator func() string

// Strategies accepted by ForStrategy.
const (
	StrategyULID = "ulid"
	StrategyUUID = "uuid"
)

// ForStrategy returns the generator named by strategy, case-insensitively.
// An empty strategy selects ULID.
func ForStrategy(strategy string) (Generator, error) {
	switch strings.ToLower(strategy) {
	case "", StrategyULID:
		return ULID, nil
	case StrategyUUID:
		return UUID, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q (want %s or %s)", strategy, StrategyULID, StrategyUUID)
	}
}

// UUID generates a random UUID v4 string.
func UUID() string {
	return uuid.NewString()
}

// ulidEncoding is Crockford's Base32 (no I, L, O, U).
const ulidEncoding = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ULIDLength is the length of every ULID string.
const ULIDLength = 26

var (
	ulidMu      sync.Mutex
	ulidLastMs  int64
	ulidCounter uint16
)

// ULID returns a time-prefixed identifier with a random suffix.
// IDs generated within the same millisecond stay unique through a counter
// mixed into the random part.
func ULID() string {
	ulidMu.Lock()
	now := time.Now().UnixMilli()
	if now == ulidLastMs {
		ulidCounter++
		if ulidCounter == 0 {
			for now == ulidLastMs {
				time.Sleep(time.Millisecond)
				now = time.Now().UnixMilli()
			}
			ulidLastMs = now
		}
	} else {
		ulidLastMs = now
		ulidCounter = 0
	}
	counter := ulidCounter
	ulidMu.Unlock()

	return encodeULID(now, counter)
}

func encodeULID(ms int64, counter uint16) string {
	out := make([]byte, ULIDLength)

	// 48-bit timestamp in the first 10 characters.
	for i := 9; i >= 0; i-- {
		out[i] = ulidEncoding[ms&0x1F]
		ms >>= 5
	}

	random := make([]byte, 10)
	_, _ = rand.Read(random)
	random[0] ^= byte(counter >> 8)
	random[1] ^= byte(counter)

	// 80 random bits in the last 16 characters, 5 bits at a time.
	var acc uint64
	bits := 0
	pos := 10
	for _, b := range random {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = ulidEncoding[(acc>>uint(bits))&0x1F]
			pos++
		}
	}

	return string(out)
}

// IsValidULID reports whether s is a well-formed ULID.
func IsValidULID(s string) bool {
	if len(s) != ULIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isULIDChar(s[i]) {
			return false
		}
	}
	return true
}

func isULIDChar(c byte) bool {
	for i := 0; i < len(ulidEncoding); i++ {
		if ulidEncoding[i] == c {
			return true
		}
	}
	return false
}

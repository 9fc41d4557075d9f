package heartbeat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxPayloadSize is the receive buffer size. The largest uint64 is 20 digits,
// which leaves room for surrounding whitespace.
const MaxPayloadSize = 32

// Decoding errors.
var (
	ErrInvalidEncoding  = errors.New("heartbeat: payload is not valid UTF-8")
	ErrMalformedPayload = errors.New("heartbeat: payload is not an unsigned integer")
)

// Encode returns the wire representation of a counter value.
func Encode(value uint64) []byte {
	return strconv.AppendUint(make([]byte, 0, 20), value, 10)
}

// Decode parses a received payload into a counter value.
func Decode(payload []byte) (uint64, error) {
	if !utf8.Valid(payload) {
		return 0, ErrInvalidEncoding
	}
	text := strings.TrimSpace(string(payload))
	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPayload, text)
	}
	return value, nil
}

package convert

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure.
type Kind uint8

const (
	KindDetect Kind = iota + 1
	KindDecode
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindDetect:
		return "detect"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is returned by Convert and the per-format helpers. Its message is a
// short human-readable reason suitable for showing to a user as-is.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindDetect {
		// Detection messages are part of the public contract; pass
		// them through unchanged.
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func isKind(err error, k Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == k
	}
	return false
}

// IsDetect reports whether err is a format detection failure.
func IsDetect(err error) bool { return isKind(err, KindDetect) }

// IsDecode reports whether err is a decode failure.
func IsDecode(err error) bool { return isKind(err, KindDecode) }

// IsEncode reports whether err is an encode failure. Only returned in
// strict mode.
func IsEncode(err error) bool { return isKind(err, KindEncode) }

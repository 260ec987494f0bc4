package ots

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks a malformed commitment byte stream.
	ErrDecode = errors.New("malformed timestamp")
	// ErrEncode is returned when a tree cannot be serialized.
	ErrEncode = errors.New("unencodable timestamp")
	// ErrMessageMismatch is returned when merging trees that commit to different messages.
	ErrMessageMismatch = errors.New("timestamp message mismatch")
)

func decodeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

func encodeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEncode, fmt.Sprintf(format, args...))
}

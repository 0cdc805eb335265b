package domainobjs

import "errors"

var (
	// ErrValidation is returned when a value is out of the field range, an
	// array has the wrong fixed length or a serialized prefix is wrong.
	ErrValidation = errors.New("validation error")
	// ErrDecode is returned on malformed hex, base64 or JSON input and on
	// compressed points that cannot be unpacked.
	ErrDecode = errors.New("decode error")
	// ErrInternalConsistency signals a broken invariant, such as two key
	// pairs that agree on the private key but not on the public key. It is
	// raised with panic, never returned.
	ErrInternalConsistency = errors.New("internal consistency error")
)

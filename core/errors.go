package core

import (
	"errors"
	"fmt"
)

// Structural errors: the input is not what it claims to be.
var (
	ErrNotAContainer       = errors.New("not a JPEG container: missing SOI marker")
	ErrMalformedContainer  = errors.New("malformed container")
	ErrBadHeader           = errors.New("invalid TIFF header")
	ErrUnsupportedDataType = errors.New("unsupported data type")
	ErrTypeMismatch        = errors.New("tag type does not match registry")
	ErrUnsupportedFormat   = errors.New("format has no supported metadata container")
	ErrNoExif              = errors.New("no EXIF metadata found")
	ErrPointerTag          = errors.New("sub-IFD pointer tags are managed by the document")
)

// Bounds, integrity and capacity errors.
var (
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrCyclicDirectory = errors.New("cyclic directory chain")
	ErrTooDeep         = errors.New("directory nesting too deep")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Kind classifies an error into the codec's error taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindStructural
	KindBounds
	KindIntegrity
	KindCapacity
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindBounds:
		return "bounds"
	case KindIntegrity:
		return "integrity"
	case KindCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// KindOf reports the taxonomy class of err, looking through wrapping.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrOutOfBounds):
		return KindBounds
	case errors.Is(err, ErrCyclicDirectory), errors.Is(err, ErrTooDeep):
		return KindIntegrity
	case errors.Is(err, ErrPayloadTooLarge):
		return KindCapacity
	case errors.Is(err, ErrNotAContainer), errors.Is(err, ErrMalformedContainer),
		errors.Is(err, ErrBadHeader), errors.Is(err, ErrUnsupportedDataType),
		errors.Is(err, ErrTypeMismatch), errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrNoExif), errors.Is(err, ErrPointerTag):
		return KindStructural
	}
	return KindUnknown
}

// Error attaches location context to one of the sentinel errors above.
type Error struct {
	Op     string // e.g. "read u32", "decode IFD", "scan"
	Offset int64  // byte offset the failure refers to, -1 if none
	Tag    uint16
	HasTag bool
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.HasTag {
		msg += fmt.Sprintf(" (tag 0x%04X)", e.Tag)
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error without tag context. Extra detail is appended to
// the sentinel's message while keeping it matchable with errors.Is.
func Errorf(op string, offset int64, sentinel error, format string, args ...any) error {
	err := sentinel
	if format != "" {
		err = fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
	}
	return &Error{Op: op, Offset: offset, Err: err}
}

// WithTag returns err annotated with a tag id. If err is already an *Error
// the tag is set on a copy.
func WithTag(err error, tag uint16) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok && !e.HasTag {
		cp := *e
		cp.Tag, cp.HasTag = tag, true
		return &cp
	}
	return &Error{Op: "tag", Offset: -1, Tag: tag, HasTag: true, Err: err}
}

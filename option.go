package edns

import (
	"github.com/sagernet/sing/common/buf"
	E "github.com/sagernet/sing/common/exceptions"
)

// Option codes from the IANA EDNS0 registry that this codec understands.
// NSID carries no dedicated variant and decodes as a GenericOption.
const (
	CodeLLQ  uint16 = 1
	CodeUL   uint16 = 2
	CodeNSID uint16 = 3
)

var (
	ErrMalformedOption = E.New("malformed option")
	ErrNotComparable   = E.New("options of different types are not comparable")
)

// Option is one typed EDNS0 option payload. The type/length header around
// the payload belongs to the enclosing message layer, not to the option.
//
// Compare returns a three-way result and is only defined between options of
// the same type; comparing across types returns ErrNotComparable.
type Option interface {
	Code() uint16
	Encode(buffer *buf.Buffer) error
	Compare(other Option) (int, error)
}

// Equal reports whether two options are the same type with equal content.
// Options of different types are never equal.
func Equal(left Option, right Option) bool {
	if left.Code() != right.Code() {
		return false
	}
	result, err := left.Compare(right)
	if err != nil {
		return false
	}
	return result == 0
}

// Less orders two options of the same type, returning ErrNotComparable for
// mixed-type operands.
func Less(left Option, right Option) (bool, error) {
	result, err := left.Compare(right)
	if err != nil {
		return false, err
	}
	return result < 0, nil
}

func compareUint64(left uint64, right uint64) int {
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

// optionWindow bounds-checks the requested byte window before any decoder
// touches it. Decoders never read outside [offset, offset+length).
func optionWindow(wire []byte, offset int, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(wire) {
		return nil, E.Cause(ErrMalformedOption, "option window ", offset, "+", length, " exceeds buffer size ", len(wire))
	}
	return wire[offset : offset+length], nil
}

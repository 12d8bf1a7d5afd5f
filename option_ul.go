package edns

import (
	"encoding/binary"

	"github.com/sagernet/sing/common/buf"
	E "github.com/sagernet/sing/common/exceptions"
)

const ulOptionSize = 8 + 4

var _ Option = (*ULOption)(nil)

// ULOption associates a lease duration with a dynamic update.
// The wire layout is update lease id then lease length, the reverse of the
// constructor argument order.
type ULOption struct {
	leaseLength   uint32
	updateLeaseID uint64
}

func NewULOption(leaseLength uint32, updateLeaseID uint64) *ULOption {
	return &ULOption{leaseLength: leaseLength, updateLeaseID: updateLeaseID}
}

func decodeULOption(code uint16, wire []byte, offset int, length int) (Option, error) {
	window, err := optionWindow(wire, offset, length)
	if err != nil {
		return nil, err
	}
	if len(window) != ulOptionSize {
		return nil, E.Cause(ErrMalformedOption, "UL option length ", length, ", expected ", ulOptionSize)
	}
	return &ULOption{
		updateLeaseID: binary.BigEndian.Uint64(window[:8]),
		leaseLength:   binary.BigEndian.Uint32(window[8:12]),
	}, nil
}

func (o *ULOption) Code() uint16 {
	return CodeUL
}

func (o *ULOption) LeaseLength() uint32 {
	return o.leaseLength
}

func (o *ULOption) UpdateLeaseID() uint64 {
	return o.updateLeaseID
}

func (o *ULOption) Encode(buffer *buf.Buffer) error {
	data := buffer.Extend(ulOptionSize)
	binary.BigEndian.PutUint64(data[:8], o.updateLeaseID)
	binary.BigEndian.PutUint32(data[8:12], o.leaseLength)
	return nil
}

// Compare orders over (lease length, update lease id). Unlike LLQOption
// the option code is not part of the tuple.
func (o *ULOption) Compare(other Option) (int, error) {
	ul, isUL := other.(*ULOption)
	if !isUL {
		return 0, ErrNotComparable
	}
	if result := compareUint64(uint64(o.leaseLength), uint64(ul.leaseLength)); result != 0 {
		return result, nil
	}
	return compareUint64(o.updateLeaseID, ul.updateLeaseID), nil
}

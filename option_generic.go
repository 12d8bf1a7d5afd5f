package edns

import (
	"bytes"

	"github.com/sagernet/sing/common"
	"github.com/sagernet/sing/common/buf"
)

var _ Option = (*GenericOption)(nil)

// GenericOption carries an option type this codec has no better
// implementation for. The payload is preserved verbatim.
type GenericOption struct {
	code    uint16
	payload []byte
}

func NewGenericOption(code uint16, payload []byte) *GenericOption {
	return &GenericOption{code: code, payload: payload}
}

func decodeGenericOption(code uint16, wire []byte, offset int, length int) (Option, error) {
	window, err := optionWindow(wire, offset, length)
	if err != nil {
		return nil, err
	}
	return &GenericOption{code: code, payload: append([]byte{}, window...)}, nil
}

func (o *GenericOption) Code() uint16 {
	return o.code
}

func (o *GenericOption) Payload() []byte {
	return o.payload
}

func (o *GenericOption) Encode(buffer *buf.Buffer) error {
	return common.Error(buffer.Write(o.payload))
}

func (o *GenericOption) Compare(other Option) (int, error) {
	generic, isGeneric := other.(*GenericOption)
	if !isGeneric || generic.code != o.code {
		return 0, ErrNotComparable
	}
	return bytes.Compare(o.payload, generic.payload), nil
}

package edns

import (
	"encoding/binary"
	"math"

	"github.com/sagernet/sing/common/buf"
	E "github.com/sagernet/sing/common/exceptions"
)

const llqOptionSize = 2 + 2 + 2 + 8 + 4

type LLQOpcode uint16

const (
	LLQOpcodeSetup LLQOpcode = iota + 1
	LLQOpcodeRefresh
	LLQOpcodeEvent
)

func (c LLQOpcode) String() string {
	switch c {
	case LLQOpcodeSetup:
		return "LLQ-SETUP"
	case LLQOpcodeRefresh:
		return "LLQ-REFRESH"
	case LLQOpcodeEvent:
		return "LLQ-EVENT"
	default:
		return "LLQ-OPCODE-UNKNOWN"
	}
}

type LLQError uint16

const (
	LLQErrorNoError LLQError = iota
	LLQErrorServFull
	LLQErrorStatic
	LLQErrorFormatErr
	LLQErrorNoSuchLLQ
	LLQErrorBadVers
	LLQErrorUnknownErr
)

func (c LLQError) String() string {
	switch c {
	case LLQErrorNoError:
		return "NO-ERROR"
	case LLQErrorServFull:
		return "SERV-FULL"
	case LLQErrorStatic:
		return "STATIC"
	case LLQErrorFormatErr:
		return "FORMAT-ERR"
	case LLQErrorNoSuchLLQ:
		return "NO-SUCH-LLQ"
	case LLQErrorBadVers:
		return "BAD-VERS"
	case LLQErrorUnknownErr:
		return "UNKNOWN-ERR"
	default:
		return "LLQ-ERROR-UNKNOWN"
	}
}

var _ Option = (*LLQOption)(nil)

// LLQOption carries the Long-Lived Query control fields.
// Wire layout is version, opcode, error code, query id, lease life in
// network byte order, 18 bytes with no padding.
type LLQOption struct {
	version   uint16
	opcode    LLQOpcode
	errorCode LLQError
	queryID   uint64
	leaseLife uint32
}

type LLQOptionOptions struct {
	Version   uint16
	Opcode    LLQOpcode
	ErrorCode LLQError
	QueryID   *uint64
	LeaseLife uint32
	Entropy   EntropySource
}

// NewLLQOption builds an LLQ option for encoding. Zero is the default
// sentinel for Version and Opcode, selecting version 1 and LLQ-SETUP;
// neither field has a meaningful zero on the wire, so instances carrying
// one only come out of decode. When QueryID is nil the id is drawn from
// Entropy once, here, so repeated encodes of the instance are idempotent.
func NewLLQOption(options LLQOptionOptions) (*LLQOption, error) {
	option := &LLQOption{
		version:   options.Version,
		opcode:    options.Opcode,
		errorCode: options.ErrorCode,
		leaseLife: options.LeaseLife,
	}
	if option.version == 0 {
		option.version = 1
	}
	if option.opcode == 0 {
		option.opcode = LLQOpcodeSetup
	}
	if options.QueryID != nil {
		option.queryID = *options.QueryID
	} else {
		if options.Entropy == nil {
			return nil, E.New("missing entropy source for LLQ query id")
		}
		option.queryID = options.Entropy.RandomUint64(0, math.MaxUint64)
	}
	return option, nil
}

func decodeLLQOption(code uint16, wire []byte, offset int, length int) (Option, error) {
	window, err := optionWindow(wire, offset, length)
	if err != nil {
		return nil, err
	}
	if len(window) != llqOptionSize {
		return nil, E.Cause(ErrMalformedOption, "LLQ option length ", length, ", expected ", llqOptionSize)
	}
	return &LLQOption{
		version:   binary.BigEndian.Uint16(window[:2]),
		opcode:    LLQOpcode(binary.BigEndian.Uint16(window[2:4])),
		errorCode: LLQError(binary.BigEndian.Uint16(window[4:6])),
		queryID:   binary.BigEndian.Uint64(window[6:14]),
		leaseLife: binary.BigEndian.Uint32(window[14:18]),
	}, nil
}

func (o *LLQOption) Code() uint16 {
	return CodeLLQ
}

func (o *LLQOption) Version() uint16 {
	return o.version
}

func (o *LLQOption) Opcode() LLQOpcode {
	return o.opcode
}

func (o *LLQOption) ErrorCode() LLQError {
	return o.errorCode
}

func (o *LLQOption) QueryID() uint64 {
	return o.queryID
}

func (o *LLQOption) LeaseLife() uint32 {
	return o.leaseLife
}

func (o *LLQOption) Encode(buffer *buf.Buffer) error {
	data := buffer.Extend(llqOptionSize)
	binary.BigEndian.PutUint16(data[:2], o.version)
	binary.BigEndian.PutUint16(data[2:4], uint16(o.opcode))
	binary.BigEndian.PutUint16(data[4:6], uint16(o.errorCode))
	binary.BigEndian.PutUint64(data[6:14], o.queryID)
	binary.BigEndian.PutUint32(data[14:18], o.leaseLife)
	return nil
}

// Compare orders over (code, version, opcode, error code, query id, lease
// life). The code leads the tuple even though it is constant between
// comparable operands, keeping the order stable for sorted containers.
func (o *LLQOption) Compare(other Option) (int, error) {
	llq, isLLQ := other.(*LLQOption)
	if !isLLQ {
		return 0, ErrNotComparable
	}
	if result := compareUint64(uint64(o.version), uint64(llq.version)); result != 0 {
		return result, nil
	}
	if result := compareUint64(uint64(o.opcode), uint64(llq.opcode)); result != 0 {
		return result, nil
	}
	if result := compareUint64(uint64(o.errorCode), uint64(llq.errorCode)); result != 0 {
		return result, nil
	}
	if result := compareUint64(o.queryID, llq.queryID); result != 0 {
		return result, nil
	}
	return compareUint64(uint64(o.leaseLife), uint64(llq.leaseLife)), nil
}

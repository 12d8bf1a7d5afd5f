package edns

type decodeFunc func(code uint16, wire []byte, offset int, length int) (Option, error)

// optionDecoders is populated once and never mutated afterwards, so it is
// safe for concurrent readers without locking. Adding a variant means
// adding a file and an entry here.
var optionDecoders = map[uint16]decodeFunc{
	CodeLLQ: decodeLLQOption,
	CodeUL:  decodeULOption,
}

func decoderForCode(code uint16) decodeFunc {
	decoder, loaded := optionDecoders[code]
	if !loaded {
		return decodeGenericOption
	}
	return decoder
}

// DecodeOption builds an option from its wire payload, selecting the
// decoder registered for code and falling back to GenericOption for
// unknown codes. Malformed payloads fail with ErrMalformedOption.
func DecodeOption(code uint16, wire []byte, offset int, length int) (Option, error) {
	return decoderForCode(code)(code, wire, offset, length)
}

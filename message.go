package edns

import (
	"github.com/sagernet/sing/common/buf"
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sagernet/sing/common/logger"

	"github.com/miekg/dns"
)

// AttachOptions encodes options into the message's OPT pseudo-record,
// reusing an existing OPT record or appending one. The packed payload is
// bit-exact for every variant. Note that miekg/dns unpacks Update Lease
// options against its own 4/8-byte draft layout, so a packed message
// carrying a 12-byte UL option is rejected by dns.Msg.Unpack; such
// messages are read back through ExtractOptions on the live message.
func AttachOptions(message *dns.Msg, options ...Option) error {
	var optRecord *dns.OPT
	for _, record := range message.Extra {
		if existingRecord, isOPTRecord := record.(*dns.OPT); isOPTRecord {
			optRecord = existingRecord
			break
		}
	}
	if optRecord == nil {
		optRecord = &dns.OPT{
			Hdr: dns.RR_Header{
				Name:   ".",
				Rrtype: dns.TypeOPT,
				Class:  dns.DefaultMsgSize,
			},
		}
		message.Extra = append(message.Extra, optRecord)
	}
	for _, option := range options {
		buffer := buf.NewSize(dns.DefaultMsgSize)
		err := option.Encode(buffer)
		if err != nil {
			buffer.Release()
			return E.Cause(err, "encode option ", option.Code())
		}
		optRecord.Option = append(optRecord.Option, &dns.EDNS0_LOCAL{
			Code: option.Code(),
			Data: append([]byte{}, buffer.Bytes()...),
		})
		buffer.Release()
	}
	return nil
}

type ExtractionOptions struct {
	Logger logger.Logger

	// SkipMalformed drops options that fail to decode instead of aborting
	// the extraction.
	SkipMalformed bool
}

// packedOptionHeader is the offset of the first option payload inside a
// packed OPT record: root name, type, class, TTL, RDLENGTH, then the
// option code and option length.
const packedOptionHeader = 1 + 2 + 2 + 4 + 2 + 2 + 2

// entryPayload recovers the raw payload bytes of an option entry that
// miekg/dns has already parsed into its own typed model.
func entryPayload(entry dns.EDNS0) ([]byte, error) {
	record := &dns.OPT{
		Hdr: dns.RR_Header{
			Name:   ".",
			Rrtype: dns.TypeOPT,
		},
		Option: []dns.EDNS0{entry},
	}
	wire := make([]byte, dns.DefaultMsgSize)
	offset, err := dns.PackRR(record, wire, 0, nil, false)
	if err != nil {
		return nil, err
	}
	if offset < packedOptionHeader {
		return nil, E.Cause(ErrMalformedOption, "short OPT record")
	}
	return wire[packedOptionHeader:offset], nil
}

// ExtractOptions decodes the options carried in the message's OPT
// pseudo-record. Raw EDNS0_LOCAL entries dispatch straight through the
// decoder registry; entries miekg/dns surfaces pre-parsed (LLQ, NSID and
// the rest of its typed model) have their payload bytes recovered first
// and then dispatch the same way, so unknown codes still fall back to
// GenericOption. Entries in a foreign dialect of a registered code, such
// as miekg/dns's own 4/8-byte Update Lease layout, surface as
// ErrMalformedOption; callers that would rather drop them set
// SkipMalformed.
func ExtractOptions(message *dns.Msg, options ExtractionOptions) ([]Option, error) {
	optRecord := message.IsEdns0()
	if optRecord == nil {
		return nil, nil
	}
	var extracted []Option
	for _, entry := range optRecord.Option {
		var option Option
		var err error
		switch typedEntry := entry.(type) {
		case *dns.EDNS0_LOCAL:
			option, err = DecodeOption(typedEntry.Code, typedEntry.Data, 0, len(typedEntry.Data))
		default:
			var payload []byte
			payload, err = entryPayload(entry)
			if err == nil {
				option, err = DecodeOption(entry.Option(), payload, 0, len(payload))
			}
		}
		if err != nil {
			if options.SkipMalformed {
				if options.Logger != nil {
					options.Logger.Warn("skip option ", entry.Option(), ": ", err)
				}
				continue
			}
			return nil, E.Cause(err, "decode option ", entry.Option())
		}
		extracted = append(extracted, option)
	}
	return extracted, nil
}

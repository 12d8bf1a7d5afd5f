package edns_test

import (
	"bytes"
	"testing"

	edns "github.com/sagernet/sing-edns"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

type warnCounter struct {
	warnings int
}

func (l *warnCounter) Trace(args ...any) {}
func (l *warnCounter) Debug(args ...any) {}
func (l *warnCounter) Info(args ...any)  {}
func (l *warnCounter) Warn(args ...any)  { l.warnings++ }
func (l *warnCounter) Error(args ...any) {}
func (l *warnCounter) Fatal(args ...any) {}
func (l *warnCounter) Panic(args ...any) {}

func TestMessageRoundTrip(t *testing.T) {
	llq, err := edns.NewLLQOption(edns.LLQOptionOptions{
		Version:   1,
		Opcode:    edns.LLQOpcodeRefresh,
		QueryID:   uint64Ptr(0xDEADBEEF),
		LeaseLife: 7200,
	})
	require.NoError(t, err)
	nsid := edns.NewGenericOption(edns.CodeNSID, []byte{0xCA, 0xFE})
	local := edns.NewGenericOption(65001, []byte{0x01})

	message := new(dns.Msg)
	message.SetQuestion("example.org.", dns.TypeA)
	require.NoError(t, edns.AttachOptions(message, llq, nsid, local))

	packed, err := message.Pack()
	require.NoError(t, err)

	unpacked := new(dns.Msg)
	require.NoError(t, unpacked.Unpack(packed))

	extracted, err := edns.ExtractOptions(unpacked, edns.ExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, extracted, 3)
	require.True(t, edns.Equal(llq, extracted[0]))
	require.True(t, edns.Equal(nsid, extracted[1]))
	require.True(t, edns.Equal(local, extracted[2]))
}

func TestULMessageAttach(t *testing.T) {
	ul := edns.NewULOption(3600, 42)

	message := new(dns.Msg)
	message.SetQuestion("example.org.", dns.TypeSOA)
	require.NoError(t, edns.AttachOptions(message, ul))

	packed, err := message.Pack()
	require.NoError(t, err)
	require.True(t, bytes.Contains(packed, []byte{
		0x00, 0x02, 0x00, 0x0C,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2A,
		0x00, 0x00, 0x0E, 0x10,
	}))

	// miekg/dns unpacks code 2 against its own 4/8-byte Update Lease
	// layout, so the packed message cannot be re-parsed through it; the
	// options are read back from the live OPT record instead.
	require.Error(t, new(dns.Msg).Unpack(packed))

	extracted, err := edns.ExtractOptions(message, edns.ExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	require.True(t, edns.Equal(ul, extracted[0]))
}

func TestAttachReusesOPTRecord(t *testing.T) {
	message := new(dns.Msg)
	message.SetQuestion("example.org.", dns.TypeSOA)
	message.SetEdns0(dns.DefaultMsgSize, false)

	require.NoError(t, edns.AttachOptions(message, edns.NewULOption(3600, 42)))
	require.NoError(t, edns.AttachOptions(message, edns.NewGenericOption(65002, []byte("a"))))

	var optRecords int
	for _, record := range message.Extra {
		if _, isOPTRecord := record.(*dns.OPT); isOPTRecord {
			optRecords++
		}
	}
	require.Equal(t, 1, optRecords)

	extracted, err := edns.ExtractOptions(message, edns.ExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, extracted, 2)
	ul, isUL := extracted[0].(*edns.ULOption)
	require.True(t, isUL)
	require.Equal(t, uint32(3600), ul.LeaseLength())
	require.Equal(t, uint64(42), ul.UpdateLeaseID())
}

func TestExtractNoOPTRecord(t *testing.T) {
	message := new(dns.Msg)
	message.SetQuestion("example.org.", dns.TypeA)

	extracted, err := edns.ExtractOptions(message, edns.ExtractionOptions{})
	require.NoError(t, err)
	require.Empty(t, extracted)
}

func TestExtractMalformed(t *testing.T) {
	message := new(dns.Msg)
	message.SetQuestion("example.org.", dns.TypeSOA)
	message.Extra = append(message.Extra, &dns.OPT{
		Hdr: dns.RR_Header{
			Name:   ".",
			Rrtype: dns.TypeOPT,
		},
		Option: []dns.EDNS0{
			&dns.EDNS0_LOCAL{Code: edns.CodeUL, Data: []byte{0x00, 0x01, 0x02}},
			&dns.EDNS0_LOCAL{Code: 65001, Data: []byte("ok")},
		},
	})

	_, err := edns.ExtractOptions(message, edns.ExtractionOptions{})
	require.ErrorIs(t, err, edns.ErrMalformedOption)

	testLogger := new(warnCounter)
	extracted, err := edns.ExtractOptions(message, edns.ExtractionOptions{
		Logger:        testLogger,
		SkipMalformed: true,
	})
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	require.True(t, edns.Equal(edns.NewGenericOption(65001, []byte("ok")), extracted[0]))
	require.Equal(t, 1, testLogger.warnings)
}

func TestExtractForeignLeaseDialect(t *testing.T) {
	message := new(dns.Msg)
	message.SetQuestion("example.org.", dns.TypeSOA)
	message.Extra = append(message.Extra, &dns.OPT{
		Hdr: dns.RR_Header{
			Name:   ".",
			Rrtype: dns.TypeOPT,
		},
		Option: []dns.EDNS0{
			&dns.EDNS0_UL{Code: dns.EDNS0UL, Lease: 3600},
		},
	})

	_, err := edns.ExtractOptions(message, edns.ExtractionOptions{})
	require.ErrorIs(t, err, edns.ErrMalformedOption)

	extracted, err := edns.ExtractOptions(message, edns.ExtractionOptions{
		SkipMalformed: true,
	})
	require.NoError(t, err)
	require.Empty(t, extracted)
}

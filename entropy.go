package edns

// EntropySource supplies random query identifiers for LLQ options. The
// codec never generates randomness itself; callers decide what quality of
// entropy backs their query ids.
type EntropySource interface {
	// RandomUint64 returns a uniformly distributed value in [min, max].
	RandomUint64(min uint64, max uint64) uint64
}

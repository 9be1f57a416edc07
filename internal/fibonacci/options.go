package fibonacci

// Options configures a calculation run through a Calculator.
type Options struct {
	// MaxIndex is the largest index the calculator accepts. If 0,
	// DefaultMaxIndex is used.
	MaxIndex uint64
	// ParallelThreshold is the digit length of F(n) from which the three
	// products of a doubling step run concurrently. If 0,
	// DefaultParallelThreshold is used; a negative value disables it.
	ParallelThreshold int
}

// normalizeOptions returns a copy of opts with defaults applied to zero
// values.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.MaxIndex == 0 {
		normalized.MaxIndex = DefaultMaxIndex
	}
	if normalized.ParallelThreshold == 0 {
		normalized.ParallelThreshold = DefaultParallelThreshold
	}
	return normalized
}

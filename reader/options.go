package reader

import "github.com/JeffersonLab/evio-sub004/internal/options"

// Config holds a Reader's construction-time settings (spec.md §4.11 and
// SPEC_FULL.md §5 item 3).
type Config struct {
	forceScan           bool
	checkRecordSequence bool
}

func defaultConfig() *Config {
	return &Config{}
}

// Option configures a Reader at construction time, the same generic
// functional-option machinery writer.Option uses.
type Option = options.Option[*Config]

// WithForceScan walks every record end-to-end instead of trusting a
// trailer or file-header index, matching spec.md §4.11 strategy (a). Use
// this when a file's index cannot be trusted (e.g. written by a crashed
// producer that never got to write its trailer).
func WithForceScan(enabled bool) Option {
	return options.NoError(func(c *Config) { c.forceScan = enabled })
}

// WithCheckRecordSequence enables the non-fatal record-number sequence
// check (SPEC_FULL.md §7 resolution 1): out-of-order record numbers append
// to Reader.Warnings() instead of aborting construction. Off by default,
// since file order is meaningless once records are indexed for random
// access; most useful when force-scanning a file whose producer is
// suspected to have written records out of order.
func WithCheckRecordSequence(enabled bool) Option {
	return options.NoError(func(c *Config) { c.checkRecordSequence = enabled })
}

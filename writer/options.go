package writer

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/internal/options"
)

// Config holds a Writer's construction-time settings (spec.md §4.10:
// "Configured by: target kind, byte order, compression type, target max
// record size and max event count, split-file threshold, optional XML
// dictionary string, optional first-event bytes, and optional user
// header").
type Config struct {
	buffer bool

	order       endian.EndianEngine
	compression format.CompressionType

	maxRecordBytes      int
	maxRecordEvents     int
	splitThresholdBytes int64

	dictionary string
	firstEvent []byte
	userHeader []byte

	overwriteOK         bool
	emitTrailerIndex    bool
	checkRecordSequence bool
}

func defaultConfig() *Config {
	return &Config{
		order:            endian.GetLittleEndianEngine(),
		compression:      format.CompressionNone,
		emitTrailerIndex: true,
	}
}

// Option configures a Writer at construction time (mebo/internal/options's
// Option[T], the generic functional-option machinery this repository's
// ambient stack adopts wholesale).
type Option = options.Option[*Config]

// WithBufferTarget selects an in-memory buffer instead of a file as the
// Writer's output target; Open's name_template argument is then unused.
func WithBufferTarget() Option {
	return options.NoError(func(c *Config) { c.buffer = true })
}

// WithByteOrder sets the byte order every record and header is written in.
func WithByteOrder(order endian.EndianEngine) Option {
	return options.NoError(func(c *Config) { c.order = order })
}

// WithCompression sets the per-record payload compression kind.
func WithCompression(kind format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if !kind.Valid() {
			return errs.ErrBadFormat
		}
		c.compression = kind

		return nil
	})
}

// WithMaxRecordBytes rotates to a new record once the current one's
// uncompressed payload would exceed n bytes; 0 means unbounded.
func WithMaxRecordBytes(n int) Option {
	return options.NoError(func(c *Config) { c.maxRecordBytes = n })
}

// WithMaxRecordEvents rotates to a new record once the current one would
// hold more than n events; 0 means unbounded.
func WithMaxRecordEvents(n int) Option {
	return options.NoError(func(c *Config) { c.maxRecordEvents = n })
}

// WithSplitThresholdBytes closes the current file and opens the next split
// once its cumulative byte count plus the next record would exceed n; 0
// disables splitting.
func WithSplitThresholdBytes(n int64) Option {
	return options.NoError(func(c *Config) { c.splitThresholdBytes = n })
}

// WithDictionary attaches an XML dictionary string, redelivered in the
// user-header record of every split file (spec.md §4.10, SPEC_FULL.md §5
// item 5).
func WithDictionary(xml string) Option {
	return options.NoError(func(c *Config) { c.dictionary = xml })
}

// WithFirstEvent attaches "first event" bytes, redelivered the same way as
// the dictionary.
func WithFirstEvent(data []byte) Option {
	return options.NoError(func(c *Config) { c.firstEvent = append([]byte(nil), data...) })
}

// WithUserHeader attaches extra bytes stored in the user-header record's
// own user-header field.
func WithUserHeader(data []byte) Option {
	return options.NoError(func(c *Config) { c.userHeader = append([]byte(nil), data...) })
}

// WithOverwrite allows Open to replace an existing file at the target path;
// by default Open fails with ErrFileExists.
func WithOverwrite(ok bool) Option {
	return options.NoError(func(c *Config) { c.overwriteOK = ok })
}

// WithTrailerIndex controls whether the trailer record's payload carries
// the (record_length, event_count) index; enabled by default.
func WithTrailerIndex(enabled bool) Option {
	return options.NoError(func(c *Config) { c.emitTrailerIndex = enabled })
}

// WithCheckRecordSequence is carried for parity with reader.Reader. The
// Writer stores the flag but never reads it: it always numbers records
// sequentially and performs no sequence validation.
func WithCheckRecordSequence(enabled bool) Option {
	return options.NoError(func(c *Config) { c.checkRecordSequence = enabled })
}

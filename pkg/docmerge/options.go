// Package docmerge consolidates records extracted from MC Info, Relocation
// and Stock Machine report files into per-type datasets.
package docmerge

import (
	"github.com/rs/zerolog"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/parser"
)

// Options configures a Session.
type Options struct {
	// MaxScanRows bounds every row scan. If zero, parser.DefaultMaxScanRows is used.
	MaxScanRows int
	// Logger receives processing events. If nil, events are discarded.
	Logger *zerolog.Logger
}

// DefaultOptions returns default session options.
func DefaultOptions() Options {
	return Options{
		MaxScanRows: parser.DefaultMaxScanRows,
	}
}

// ParserOptions returns the extraction options derived from o.
func (o Options) ParserOptions() parser.Options {
	return parser.Options{MaxScanRows: o.MaxScanRows}
}

// log returns the configured logger or a no-op logger.
func (o Options) log() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return zerolog.Nop()
}

package nexus

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/tuftsbcb/phylotree/config"
)

// FileOption customizes ParseFile.
type FileOption func(*fileOptions)

type fileOptions struct {
	fs afero.Fs
}

// WithFilesystem substitutes fs (typically afero.NewMemMapFs() in
// tests) for the default afero.NewOsFs().
func WithFilesystem(fs afero.Fs) FileOption {
	return func(o *fileOptions) {
		o.fs = fs
	}
}

// ParseFile is a thin wrapper around ParseReader: it opens path
// through an afero.Fs (the real OS filesystem by default) and
// buffers it, matching the core's "no I/O beyond a byte source"
// boundary at the point the core stops and this helper begins.
func ParseFile(path string, cfg config.Config, opts ...FileOption) (*Result, error) {
	fo := fileOptions{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&fo)
	}

	f, err := fo.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "nexus: opening %q", path)
	}
	defer f.Close()

	// Passed through unwrapped, not pre-buffered: ParseReader needs to
	// see the afero.File's own io.Seeker to drive the burn-in pre-pass;
	// wrapping it in a bufio.Reader here would hide that capability.
	result, err := ParseReader(f, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "nexus: parsing %q", path)
	}
	return result, nil
}

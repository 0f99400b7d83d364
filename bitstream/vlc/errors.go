package vlc

import "github.com/pkg/errors"

// errUnknownVLC indicates no entry in a VLC table matched the bits peeked;
// callers surface this as perr.ErrReadCorruption.
var errUnknownVLC = errors.New("vlc: no matching code")

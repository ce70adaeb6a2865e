package history

import "errors"

// ErrNoStation is returned when an observation query names no station and
// no default is configured.
var ErrNoStation = errors.New("no station specified")

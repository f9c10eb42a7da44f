package blocklist

import "github.com/joshuapare/immixheap/internal/rawblock"

// ErrOOM is an alias for rawblock.ErrOOM: the only way acquiring a block
// can fail. Re-exported here so callers of this package need not import
// internal/rawblock themselves to use errors.Is.
var ErrOOM = rawblock.ErrOOM

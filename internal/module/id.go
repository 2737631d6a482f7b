package module

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a module instance for its whole lifetime.
type ID uint64

var lastID atomic.Uint64

// NextID returns a process-unique id. Ids are never reused.
func NextID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

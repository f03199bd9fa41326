package eval

import (
	"strconv"
	"sync/atomic"
)

// gensymCounter backs process-unique identifier generation. A single
// atomic counter is enough: uniqueness only needs to
// hold within one process lifetime, never across runs.
var gensymCounter uint64

// gensym returns a process-unique name derived from hint (the text between
// the dots in a `.NAME.` syntax-quote form). The hint is kept in the
// generated name purely for readability in diagnostics; uniqueness comes
// entirely from the counter suffix.
func gensym(hint string) string {
	n := atomic.AddUint64(&gensymCounter, 1)
	return hint + "~g" + strconv.FormatUint(n, 10)
}

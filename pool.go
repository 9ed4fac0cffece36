package mysqlcore

import "sync"

// bufferPool recycles envelope payload buffers once every FieldValue
// referencing them has been released (spec §4.2 refcounting, §5 resource
// ownership). Grounded on buffer.go's takeBuffer/takeSmallBuffer
// discipline: a buffer is checked out, used, and returned exactly once.
var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, defaultBufSize)
		return &b
	},
}

const (
	defaultBufSize   = 4 * 1024
	maxCachedBufSize = 256 * 1024
)

func getBuffer(n int) []byte {
	bp := bufferPool.Get().(*[]byte)
	b := *bp
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

// putBuffer returns b to the pool. Buffers larger than maxCachedBufSize
// are dropped rather than pooled, the same ceiling the teacher's bufio
// applies to avoid the pool retaining rare huge allocations forever.
func putBuffer(b []byte) {
	if cap(b) == 0 || cap(b) > maxCachedBufSize {
		return
	}
	b = b[:0]
	bufferPool.Put(&b)
}

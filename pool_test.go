package mysqlcore

import "testing"

func TestGetBufferReturnsRequestedLength(t *testing.T) {
	b := getBuffer(128)
	if len(b) != 128 {
		t.Fatalf("len = %d, want 128", len(b))
	}
}

func TestGetBufferBeyondDefaultCapacityAllocatesFresh(t *testing.T) {
	b := getBuffer(defaultBufSize + 1)
	if len(b) != defaultBufSize+1 {
		t.Fatalf("len = %d, want %d", len(b), defaultBufSize+1)
	}
}

func TestPutBufferRecyclesForSubsequentGet(t *testing.T) {
	b := getBuffer(64)
	b[0] = 0xAB
	putBuffer(b)

	again := getBuffer(64)
	// Not a guarantee of identity (sync.Pool may hand back a different
	// buffer), only that putBuffer/getBuffer round trip without panicking
	// and the returned slice still has the requested length.
	if len(again) != 64 {
		t.Fatalf("len = %d, want 64", len(again))
	}
}

func TestPutBufferDropsOversizedBuffers(t *testing.T) {
	oversized := make([]byte, maxCachedBufSize+1)
	// Must not panic; the pool silently drops it instead of caching it.
	putBuffer(oversized)
}

func TestPutBufferIgnoresZeroCapBuffer(t *testing.T) {
	var empty []byte
	putBuffer(empty)
}

package mysqlcore

import "sync/atomic"

// int32Max bounds what Normal mode (and ReadFixed) will hand back as a
// single contiguous read (spec §4.2: "N must fit in a signed 32-bit int
// for Normal").
const int32Max = 1<<31 - 1

// refCounter is the shared, transitively-retained refcount backing one
// LogicalPacket's buffers (spec §4.2: "A FieldReader is itself
// reference-counted; retain on it transitively retains the underlying
// buffers. Releasing decrements; at zero, every underlying buffer is
// released exactly once.").
type refCounter struct {
	n       int32
	release func()
}

func newRefCounter(release func()) *refCounter {
	return &refCounter{n: 1, release: release}
}

func (c *refCounter) retain() {
	atomic.AddInt32(&c.n, 1)
}

func (c *refCounter) decrement() {
	if atomic.AddInt32(&c.n, -1) == 0 && c.release != nil {
		c.release()
	}
}

// FieldValue is either Null, a Normal value (one composited view, total
// size <=2^31-1), or a Large value (an ordered list of spans whose total
// exceeds 2^31-1), per spec §3.
type FieldValue struct {
	null  bool
	large bool
	spans [][]byte
	ref   *refCounter
}

func nullFieldValue() FieldValue { return FieldValue{null: true} }

func fieldValue(ref *refCounter, large bool, spans [][]byte) FieldValue {
	ref.retain()
	return FieldValue{large: large, spans: spans, ref: ref}
}

// IsNull reports whether this value represents SQL NULL.
func (v FieldValue) IsNull() bool { return v.null }

// Large reports whether this value's total size exceeded 2^31-1 bytes at
// construction.
func (v FieldValue) Large() bool { return v.large }

// Len returns the total byte length across all backing spans.
func (v FieldValue) Len() int {
	n := 0
	for _, b := range v.spans {
		n += len(b)
	}
	return n
}

// Spans exposes the ordered backing buffers without copying. A Normal
// value always has exactly one span; a Large value may have many — this
// is the non-copying access path consumers of a >2GiB field must use
// (spec §4.2).
func (v FieldValue) Spans() [][]byte { return v.spans }

// Bytes composites the value into one contiguous slice. Safe to call on
// Normal values (a no-op copy avoidance when there's exactly one span);
// calling it on a Large value allocates and copies the full value and
// defeats the point of streaming it, so callers should prefer Spans for
// Large fields.
func (v FieldValue) Bytes() []byte {
	if len(v.spans) == 1 {
		return v.spans[0]
	}
	out := make([]byte, 0, v.Len())
	for _, b := range v.spans {
		out = append(out, b...)
	}
	return out
}

// Retain increments the shared refcount, extending the lifetime of the
// backing buffers independently of the FieldReader that produced this
// value.
func (v FieldValue) Retain() FieldValue {
	if v.ref != nil {
		v.ref.retain()
	}
	return v
}

// Release decrements the refcount; the last release frees the underlying
// buffers (spec Invariant 3). Releasing a Null value is a no-op.
func (v FieldValue) Release() {
	if v.ref != nil {
		v.ref.decrement()
	}
}

// FieldReader streams fixed- and length-encoded values out of one
// LogicalPacket (C2, spec §4.2). Mode is chosen once at construction:
//   - Normal (total <= 2^31-1): a single composited view, one cursor.
//   - Large (total > 2^31-1): the original buffer spans, cursor is
//     (span index, offset within span).
type FieldReader struct {
	large bool

	flat []byte // Normal mode composited view
	pos  int

	spans   [][]byte // Large mode original spans
	spanIdx int
	spanOff int

	ref *refCounter
}

// NewFieldReader builds a FieldReader over pkt, selecting Normal or Large
// mode by total size. release is invoked exactly once, when the reader's
// refcount (including every FieldValue it produces) reaches zero.
func NewFieldReader(pkt LogicalPacket, release func()) *FieldReader {
	total := pkt.Len()
	ref := newRefCounter(release)

	if total <= int32Max {
		var flat []byte
		if len(pkt.Buffers) == 1 {
			flat = pkt.Buffers[0]
		} else {
			flat = make([]byte, 0, total)
			for _, b := range pkt.Buffers {
				flat = append(flat, b...)
			}
		}
		return &FieldReader{flat: flat, ref: ref}
	}

	return &FieldReader{large: true, spans: pkt.Buffers, ref: ref}
}

// Large reports whether this reader selected Large mode.
func (r *FieldReader) Large() bool { return r.large }

// Retain increments the reader's shared refcount, transitively retaining
// every backing buffer.
func (r *FieldReader) Retain() *FieldReader {
	r.ref.retain()
	return r
}

// Release decrements the reader's shared refcount.
func (r *FieldReader) Release() {
	r.ref.decrement()
}

// remaining reports how many bytes are left unread, without allocating.
func (r *FieldReader) remaining() int {
	if !r.large {
		return len(r.flat) - r.pos
	}
	n := 0
	for i := r.spanIdx; i < len(r.spans); i++ {
		if i == r.spanIdx {
			n += len(r.spans[i]) - r.spanOff
		} else {
			n += len(r.spans[i])
		}
	}
	return n
}

// PeekByte returns the next unread byte without advancing the cursor.
func (r *FieldReader) PeekByte() (byte, bool) {
	if !r.large {
		if r.pos >= len(r.flat) {
			return 0, false
		}
		return r.flat[r.pos], true
	}
	idx, off := r.spanIdx, r.spanOff
	for idx < len(r.spans) {
		if off < len(r.spans[idx]) {
			return r.spans[idx][off], true
		}
		idx++
		off = 0
	}
	return 0, false
}

// SkipByte advances the cursor by one byte.
func (r *FieldReader) SkipByte() { r.Skip(1) }

// Skip advances the cursor by n bytes, clamped to what remains.
func (r *FieldReader) Skip(n int) {
	if !r.large {
		r.pos += n
		if r.pos > len(r.flat) {
			r.pos = len(r.flat)
		}
		return
	}
	r.advanceLarge(n)
}

func (r *FieldReader) advanceLarge(n int) {
	for n > 0 && r.spanIdx < len(r.spans) {
		left := len(r.spans[r.spanIdx]) - r.spanOff
		if left > n {
			r.spanOff += n
			return
		}
		n -= left
		r.spanIdx++
		r.spanOff = 0
	}
}

// ReadFixed reads exactly n bytes as one contiguous slice. Only valid in
// Normal mode (n must fit a signed 32-bit int and the reader must not be
// in Large mode); Large-mode callers must use ReadSizeFixedField instead,
// which can return a span-crossing FieldValue without copying (spec
// §4.2).
func (r *FieldReader) ReadFixed(n int) ([]byte, error) {
	if r.large {
		return nil, ErrFieldTooLarge
	}
	if n < 0 || n > int32Max {
		return nil, ErrFieldTooLarge
	}
	if r.pos+n > len(r.flat) {
		return nil, ErrMalformedPacket
	}
	b := r.flat[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadSizeFixedField reads exactly n bytes and returns them as a
// reference-counted FieldValue, working in both Normal and Large mode. In
// Large mode the returned value may reference spans across multiple
// backing buffers without copying.
func (r *FieldReader) ReadSizeFixedField(n int) (FieldValue, error) {
	if n < 0 {
		return FieldValue{}, ErrMalformedPacket
	}
	if n > r.remaining() {
		return FieldValue{}, ErrMalformedPacket
	}
	if !r.large {
		b := r.flat[r.pos : r.pos+n]
		r.pos += n
		return fieldValue(r.ref, false, [][]byte{b}), nil
	}

	var spans [][]byte
	remain := n
	for remain > 0 {
		avail := len(r.spans[r.spanIdx]) - r.spanOff
		take := avail
		if take > remain {
			take = remain
		}
		spans = append(spans, r.spans[r.spanIdx][r.spanOff:r.spanOff+take])
		remain -= take
		r.spanOff += take
		if r.spanOff == len(r.spans[r.spanIdx]) {
			r.spanIdx++
			r.spanOff = 0
		}
	}
	return fieldValue(r.ref, n > int32Max, spans), nil
}

// ReadLengthEncodedInt reads one length-encoded integer (spec §6),
// advancing the cursor past it. ok is false if the wire byte denoted
// NULL.
func (r *FieldReader) ReadLengthEncodedInt() (value uint64, ok bool, err error) {
	first, has := r.PeekByte()
	if !has {
		return 0, false, ErrMalformedPacket
	}
	switch {
	case first <= 0xfa:
		r.SkipByte()
		return uint64(first), true, nil
	case first == 0xfb:
		r.SkipByte()
		return 0, false, nil
	case first == 0xfc:
		b, err := r.readRaw(3)
		if err != nil {
			return 0, false, err
		}
		return uint64(b[1]) | uint64(b[2])<<8, true, nil
	case first == 0xfd:
		b, err := r.readRaw(4)
		if err != nil {
			return 0, false, err
		}
		return uint64(b[1]) | uint64(b[2])<<8 | uint64(b[3])<<16, true, nil
	case first == 0xfe:
		b, err := r.readRaw(9)
		if err != nil {
			return 0, false, err
		}
		var v uint64
		for i := 0; i < 8; i++ {
			v |= uint64(b[1+i]) << (8 * i)
		}
		return v, true, nil
	}
	return 0, false, ErrMalformedPacket
}

// readRaw reads n bytes (which must be small — varint headers only) into
// a throwaway contiguous slice, working in both modes by copying when the
// read crosses a span boundary in Large mode.
func (r *FieldReader) readRaw(n int) ([]byte, error) {
	if !r.large {
		return r.ReadFixed(n)
	}
	if n > r.remaining() {
		return nil, ErrMalformedPacket
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, _ := r.PeekByte()
		out[i] = b
		r.SkipByte()
	}
	return out, nil
}

// ReadNullTerminatedString reads bytes up to (and consuming) the next
// 0x00 byte, returning everything before it as a freshly allocated
// string. Used for the handful of C-string fields in the handshake and
// auth-switch packets.
func (r *FieldReader) ReadNullTerminatedString() (string, error) {
	var buf []byte
	for {
		b, ok := r.PeekByte()
		if !ok {
			return "", ErrMalformedPacket
		}
		r.SkipByte()
		if b == 0 {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

// ReadRest reads every remaining byte as one FieldValue. Never fails:
// "remaining" is always a valid length.
func (r *FieldReader) ReadRest() FieldValue {
	v, _ := r.ReadSizeFixedField(r.remaining())
	return v
}

// ReadLengthEncodedField reads a length-encoded field: the varint length
// prefix followed by that many bytes, returned as a FieldValue. A NULL
// prefix (0xfb) yields a Null FieldValue.
func (r *FieldReader) ReadLengthEncodedField() (FieldValue, error) {
	n, ok, err := r.ReadLengthEncodedInt()
	if err != nil {
		return FieldValue{}, err
	}
	if !ok {
		return nullFieldValue(), nil
	}
	if n > uint64(r.remaining()) {
		return FieldValue{}, ErrMalformedPacket
	}
	return r.ReadSizeFixedField(int(n))
}

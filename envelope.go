package mysqlcore

// Envelope framing and logical-packet reassembly (C1, spec §4.1).
//
// Grounded on packets.go's readPacket/writePacket: the same 4-byte header
// parse, the same pktLen==0 continuation-terminator rule, and the same
// maxPacketSize split/rejoin loop — reshaped from a blocking read-one-
// packet call into an incremental feed that a non-blocking read loop can
// push arbitrary-sized chunks into (engine's ioloop.go).

// LogicalPacket is one or more envelope payloads reassembled into a single
// message (spec's "Logical packet", glossary). Buffers is ordered and
// never copied into one contiguous slice here — that composition (or, for
// the >2GiB case, the refusal to compose) is FieldReader's job (C2).
type LogicalPacket struct {
	Buffers [][]byte
	Seq     byte // sequence id of the envelope that terminated this packet
}

// Len returns the total number of bytes across all buffers.
func (p LogicalPacket) Len() int {
	n := 0
	for _, b := range p.Buffers {
		n += len(b)
	}
	return n
}

// FirstByte returns the first byte of the packet, used by the codec to
// dispatch on the packet-indicator byte (spec §4.3) without compositing
// the whole packet first.
func (p LogicalPacket) FirstByte() (byte, bool) {
	for _, b := range p.Buffers {
		if len(b) > 0 {
			return b[0], true
		}
	}
	return 0, false
}

// envelopeSlicer incrementally extracts LogicalPackets from a byte stream
// fed in arbitrarily-sized chunks (spec §4.1).
type envelopeSlicer struct {
	pending []byte
	seq     byte
	partial [][]byte // payloads of a multi-envelope logical packet in progress
}

func newEnvelopeSlicer() *envelopeSlicer {
	return &envelopeSlicer{}
}

// resetSequence resets the expected next sequence id to 0. Called by the
// codec at the start of each client-initiated exchange (Invariant 1); a
// logical packet straddling a reset never happens because an exchange
// boundary only occurs once the prior exchange's terminator has been
// fully consumed.
func (s *envelopeSlicer) resetSequence() {
	s.seq = 0
}

// feed appends newly read bytes to the rolling buffer and extracts as
// many complete logical packets as are now available, in arrival order.
// Leftover bytes that don't yet form a complete envelope are retained for
// the next call.
func (s *envelopeSlicer) feed(chunk []byte) ([]LogicalPacket, error) {
	if len(chunk) > 0 {
		s.pending = append(s.pending, chunk...)
	}

	var out []LogicalPacket
	for {
		if len(s.pending) < 4 {
			break
		}
		pktLen := int(s.pending[0]) | int(s.pending[1])<<8 | int(s.pending[2])<<16
		seqID := s.pending[3]
		if len(s.pending) < 4+pktLen {
			break // await more bytes
		}
		if seqID != s.seq {
			return out, protocolViolation("packet sequence mismatch", ErrSequenceMismatch)
		}
		s.seq++

		payload := s.pending[4 : 4+pktLen]
		s.pending = s.pending[4+pktLen:]

		if pktLen == 0 {
			if s.partial == nil {
				return out, protocolViolation("zero-length continuation with no prior envelope", ErrMalformedPacket)
			}
			out = append(out, LogicalPacket{Buffers: s.partial, Seq: seqID})
			s.partial = nil
			continue
		}

		buf := getBuffer(len(payload))
		copy(buf, payload)

		if pktLen == maxPacketSize {
			s.partial = append(s.partial, buf)
			continue
		}

		if s.partial != nil {
			out = append(out, LogicalPacket{Buffers: append(s.partial, buf), Seq: seqID})
			s.partial = nil
		} else {
			out = append(out, LogicalPacket{Buffers: [][]byte{buf}, Seq: seqID})
		}
	}

	if len(s.pending) == 0 {
		s.pending = nil // drop retained capacity once fully drained
	}
	return out, nil
}

// encodeEnvelopes frames payload into one or more envelopes, advancing
// *seq for each one written (including the zero-length terminator when
// len(payload) is an exact multiple of maxPacketSize, spec §8 boundary
// behavior), and returns the concatenated wire bytes ready to write.
func encodeEnvelopes(seq *byte, payload []byte) []byte {
	var out []byte
	remaining := payload
	for {
		chunk := remaining
		if len(chunk) > maxPacketSize {
			chunk = remaining[:maxPacketSize]
		}
		out = append(out, header(len(chunk), *seq)...)
		out = append(out, chunk...)
		*seq++
		remaining = remaining[len(chunk):]

		if len(chunk) < maxPacketSize {
			return out
		}
		if len(remaining) == 0 {
			// exact multiple of maxPacketSize: terminate with a zero-length envelope
			out = append(out, header(0, *seq)...)
			*seq++
			return out
		}
	}
}

func header(pktLen int, seq byte) []byte {
	return []byte{byte(pktLen), byte(pktLen >> 8), byte(pktLen >> 16), seq}
}

package mysqlcore

import "encoding/binary"

func le16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func le32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func le64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// readLenEncStr reads one length-encoded string field and releases its
// backing FieldValue immediately, returning a freshly allocated Go
// string. Used for header fields (column names, catalogs) that are never
// large enough to justify the zero-copy FieldValue path row data uses.
func readLenEncStr(r *FieldReader) (string, error) {
	v, err := r.ReadLengthEncodedField()
	if err != nil {
		return "", err
	}
	defer v.Release()
	if v.IsNull() {
		return "", nil
	}
	return string(v.Bytes()), nil
}

package mysqlcore

// MessageDuplexCodec (C3, spec §4.3). Grounded on packets.go's
// phase-specific readers (readHandshakePacket, readResultSetHeaderPacket,
// readColumns, textRows/binaryRows.readRow, readAuthResult, handleOkPacket,
// handleErrorPacket) collapsed into one stateful decoder, plus
// mickamy-sql-tap's responseState shape for the idea of an explicit
// inbound-mode field rather than a chain of blocking reads.
//
// One codec instance per connection, driven exclusively by the I/O
// goroutine (ioloop.go): nothing here needs a lock.

// decodeMode is the codec's current inbound interpretation context.
type decodeMode int

const (
	modeAwaitGreeting decodeMode = iota
	modeAwaitAuthReply
	modeAwaitCommandReply
	modeAwaitResultMetadata
	modeAwaitResultRows
	modeAwaitLocalInfile
)

// resultProtocol selects text vs binary row decoding for the result set
// currently in flight, fixed by which command started the exchange
// (COM_QUERY → text, COM_STMT_EXECUTE → binary).
type resultProtocol int

const (
	protocolText resultProtocol = iota
	protocolBinary
)

// ExchangeKind tells BeginExchange what reply shape to expect, since the
// leading OK-shaped byte means different things for a plain command vs a
// COM_STMT_PREPARE.
type ExchangeKind int

const (
	ExchangeKindGeneric ExchangeKind = iota
	ExchangeKindPrepare
	ExchangeKindExecute
)

// ConnectionContext is the negotiated state a connection accumulates
// across its handshake and carries for the rest of its life: capability
// flags, server identity, and the latest status bits. Owned exclusively
// by the codec's driving goroutine.
type ConnectionContext struct {
	Capabilities  capabilityFlag
	ServerVersion string
	ConnectionID  uint32
	Collation     byte
	Status        statusFlag
}

// MessageDuplexCodec decodes inbound LogicalPackets into ServerMessages
// and encodes outbound ClientMessages into envelope-framed bytes, all
// relative to one shared sequence-id counter and decode mode.
type MessageDuplexCodec struct {
	ctx *ConnectionContext

	mode     decodeMode
	resultNx resultProtocol

	pendingIsPrepare bool
	metaRemaining    int
	columns          []ColumnDefinition
	afterMetadata    func()

	slicer *envelopeSlicer
	outSeq byte
}

// NewMessageDuplexCodec builds a codec that starts in modeAwaitGreeting,
// the state every connection begins in before its first byte arrives.
func NewMessageDuplexCodec(ctx *ConnectionContext) *MessageDuplexCodec {
	return &MessageDuplexCodec{
		ctx:    ctx,
		mode:   modeAwaitGreeting,
		slicer: newEnvelopeSlicer(),
	}
}

// BeginExchange resets the sequence counter and decode expectations for a
// newly activated exchange (Invariant 1: sequence ids reset at exchange
// boundaries). Called by the RequestQueue exactly once per activation.
func (c *MessageDuplexCodec) BeginExchange(kind ExchangeKind) {
	c.slicer.resetSequence()
	c.outSeq = 0
	c.mode = modeAwaitCommandReply
	c.pendingIsPrepare = kind == ExchangeKindPrepare
	if kind == ExchangeKindExecute {
		c.resultNx = protocolBinary
	} else {
		c.resultNx = protocolText
	}
	c.columns = nil
	c.metaRemaining = 0
	c.afterMetadata = nil
}

// Encode serializes msg into envelope-framed wire bytes using this
// exchange's running sequence counter.
func (c *MessageDuplexCodec) Encode(msg ClientMessage) []byte {
	return msg.Encode(nil, &c.outSeq)
}

// Feed pushes a newly read chunk of bytes through envelope reassembly and
// decodes every logical packet it completes, in arrival order. A decode
// error aborts the batch; packets already decoded are still returned.
func (c *MessageDuplexCodec) Feed(chunk []byte) ([]ServerMessage, error) {
	// Both directions share one sequence counter per exchange: the next
	// inbound envelope follows the last one this side wrote, and the next
	// outbound envelope follows the last one read.
	c.slicer.seq = c.outSeq
	pkts, err := c.slicer.feed(chunk)
	c.outSeq = c.slicer.seq
	if err != nil {
		return nil, err
	}
	out := make([]ServerMessage, 0, len(pkts))
	for _, pkt := range pkts {
		msg, err := c.decode(pkt)
		if err != nil {
			return out, err
		}
		if msg != nil {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (c *MessageDuplexCodec) decode(pkt LogicalPacket) (ServerMessage, error) {
	reader := NewFieldReader(pkt, releaseLogicalPacket(pkt))
	defer reader.Release()

	switch c.mode {
	case modeAwaitGreeting:
		return c.decodeGreeting(reader)
	case modeAwaitAuthReply:
		return c.decodeAuthReply(reader)
	case modeAwaitCommandReply, modeAwaitLocalInfile:
		return c.decodeCommandReply(reader)
	case modeAwaitResultMetadata:
		return c.decodeResultMetadata(reader)
	case modeAwaitResultRows:
		return c.decodeRow(reader)
	}
	return nil, protocolViolation("no active decode mode", nil)
}

func releaseLogicalPacket(pkt LogicalPacket) func() {
	return func() {
		for _, b := range pkt.Buffers {
			putBuffer(b)
		}
	}
}

// --- handshake / auth -------------------------------------------------

func (c *MessageDuplexCodec) decodeGreeting(reader *FieldReader) (ServerMessage, error) {
	first, ok := reader.PeekByte()
	if !ok {
		return nil, protocolViolation("empty greeting packet", nil)
	}
	if first == iERR {
		return c.decodeErrorPacket(reader)
	}
	reader.SkipByte() // protocol version
	if first < minProtocolVersion {
		return nil, wrapError(KindProtocolViolation, "unsupported protocol version", ErrOldProtocol)
	}

	serverVersion, err := reader.ReadNullTerminatedString()
	if err != nil {
		return nil, protocolViolation("bad server version", err)
	}

	connIDv, err := reader.ReadSizeFixedField(4)
	if err != nil {
		return nil, protocolViolation("bad connection id", err)
	}
	connID := le32(connIDv.Bytes())
	connIDv.Release()

	authData1, err := reader.ReadSizeFixedField(8)
	if err != nil {
		return nil, protocolViolation("bad auth plugin data part 1", err)
	}
	authData := append([]byte(nil), authData1.Bytes()...)
	authData1.Release()

	reader.SkipByte() // filler

	capLow, err := reader.ReadSizeFixedField(2)
	if err != nil {
		return nil, protocolViolation("bad capability flags (lower)", err)
	}
	caps := capabilityFlag(le16(capLow.Bytes()))
	capLow.Release()

	var collation byte
	var status statusFlag
	var pluginName string

	if reader.remaining() > 0 {
		csv, err := reader.ReadSizeFixedField(1)
		if err != nil {
			return nil, protocolViolation("bad charset", err)
		}
		collation = csv.Bytes()[0]
		csv.Release()

		sv, err := reader.ReadSizeFixedField(2)
		if err != nil {
			return nil, protocolViolation("bad status flags", err)
		}
		status = readStatus(sv.Bytes())
		sv.Release()

		capHigh, err := reader.ReadSizeFixedField(2)
		if err != nil {
			return nil, protocolViolation("bad capability flags (upper)", err)
		}
		caps |= capabilityFlag(le16(capHigh.Bytes())) << 16
		capHigh.Release()

		authLenV, err := reader.ReadSizeFixedField(1)
		if err != nil {
			return nil, protocolViolation("bad auth plugin data length", err)
		}
		authLen := authLenV.Bytes()[0]
		authLenV.Release()
		_ = authLen

		reader.Skip(10) // reserved

		if reader.remaining() >= 13 {
			authData2, err := reader.ReadSizeFixedField(12)
			if err != nil {
				return nil, protocolViolation("bad auth plugin data part 2", err)
			}
			authData = append(authData, authData2.Bytes()...)
			authData2.Release()
			reader.Skip(1) // trailing NUL of the second auth-data part
		}

		if caps&clientPluginAuth != 0 {
			if name, err := reader.ReadNullTerminatedString(); err == nil {
				pluginName = name
			} else {
				rest := reader.ReadRest()
				pluginName = string(rest.Bytes())
				rest.Release()
			}
		}
	}

	c.ctx.Capabilities = caps
	c.ctx.ServerVersion = serverVersion
	c.ctx.ConnectionID = connID
	c.ctx.Collation = collation
	c.ctx.Status = status

	c.mode = modeAwaitAuthReply

	return HandshakeGreeting{
		ProtocolVersion: first,
		ServerVersion:   serverVersion,
		ConnectionID:    connID,
		Capabilities:    caps,
		Collation:       collation,
		Status:          status,
		AuthPluginData:  authData,
		AuthPluginName:  pluginName,
	}, nil
}

func (c *MessageDuplexCodec) decodeAuthReply(reader *FieldReader) (ServerMessage, error) {
	first, ok := reader.PeekByte()
	if !ok {
		return nil, protocolViolation("empty auth reply packet", nil)
	}
	switch first {
	case iOK:
		msg, err := c.decodeOKPacket(reader)
		if err != nil {
			return nil, err
		}
		c.mode = modeAwaitCommandReply
		return msg, nil
	case iAuthMore:
		reader.SkipByte()
		data := reader.ReadRest()
		b := append([]byte(nil), data.Bytes()...)
		data.Release()
		return AuthMoreData{Data: b}, nil
	case iEOF:
		reader.SkipByte()
		if reader.remaining() == 0 {
			// old_password-era switch with no explicit plugin name or data
			return AuthSwitchRequest{PluginName: "mysql_old_password"}, nil
		}
		name, err := reader.ReadNullTerminatedString()
		if err != nil {
			rest := reader.ReadRest()
			name = string(rest.Bytes())
			rest.Release()
			return AuthSwitchRequest{PluginName: name}, nil
		}
		data := reader.ReadRest()
		b := append([]byte(nil), data.Bytes()...)
		data.Release()
		return AuthSwitchRequest{PluginName: name, PluginData: b}, nil
	case iERR:
		return c.decodeErrorPacket(reader)
	default:
		return nil, protocolViolation("unexpected byte in auth reply", nil)
	}
}

// --- generic OK / EOF / ERR --------------------------------------------

func (c *MessageDuplexCodec) decodeOKPacket(reader *FieldReader) (ServerMessage, error) {
	reader.SkipByte() // 0x00
	affected, _, err := reader.ReadLengthEncodedInt()
	if err != nil {
		return nil, protocolViolation("bad OK affected-rows", err)
	}
	insertID, _, err := reader.ReadLengthEncodedInt()
	if err != nil {
		return nil, protocolViolation("bad OK last-insert-id", err)
	}

	var status statusFlag
	var warnings uint16
	if reader.remaining() >= 4 {
		sv, err := reader.ReadSizeFixedField(2)
		if err != nil {
			return nil, protocolViolation("bad OK status flags", err)
		}
		status = readStatus(sv.Bytes())
		sv.Release()

		wv, err := reader.ReadSizeFixedField(2)
		if err != nil {
			return nil, protocolViolation("bad OK warning count", err)
		}
		warnings = le16(wv.Bytes())
		wv.Release()
		c.ctx.Status = status
	}

	info := ""
	if reader.remaining() > 0 {
		rest := reader.ReadRest()
		info = string(rest.Bytes())
		rest.Release()
	}

	return OKMessage{AffectedRows: affected, LastInsertID: insertID, Status: status, WarningCount: warnings, Info: info}, nil
}

func (c *MessageDuplexCodec) decodeErrorPacket(reader *FieldReader) (ServerMessage, error) {
	reader.SkipByte() // 0xff
	ev, err := reader.ReadSizeFixedField(2)
	if err != nil {
		return nil, protocolViolation("bad error number", err)
	}
	errno := le16(ev.Bytes())
	ev.Release()

	var sqlState string
	if b, ok := reader.PeekByte(); ok && b == '#' {
		reader.SkipByte()
		sv, err := reader.ReadSizeFixedField(5)
		if err != nil {
			return nil, protocolViolation("bad sql state", err)
		}
		sqlState = string(sv.Bytes())
		sv.Release()
	}

	rest := reader.ReadRest()
	msg := normalizeDiagnosticText(rest.Bytes(), c.ctx.Collation)
	rest.Release()

	return ErrorMessage{Err: &ServerError{Number: errno, SQLState: sqlState, Message: msg}}, nil
}

// --- command reply / result metadata / rows ----------------------------

func (c *MessageDuplexCodec) decodeCommandReply(reader *FieldReader) (ServerMessage, error) {
	totalLen := reader.remaining()
	first, ok := reader.PeekByte()
	if !ok {
		return nil, protocolViolation("empty command reply packet", nil)
	}

	switch {
	case first == iERR:
		c.mode = modeAwaitCommandReply
		return c.decodeErrorPacket(reader)

	case first == iOK && c.pendingIsPrepare:
		return c.decodePreparedOK(reader)

	case first == iOK && totalLen >= 7:
		msg, err := c.decodeOKPacket(reader)
		if err != nil {
			return nil, err
		}
		c.mode = modeAwaitCommandReply
		return msg, nil

	case first == iEOF && totalLen < 9:
		reader.SkipByte()
		var status statusFlag
		var warnings uint16
		if totalLen == 5 {
			wv, err := reader.ReadSizeFixedField(2)
			if err != nil {
				return nil, protocolViolation("bad EOF warning count", err)
			}
			warnings = le16(wv.Bytes())
			wv.Release()
			sv, err := reader.ReadSizeFixedField(2)
			if err != nil {
				return nil, protocolViolation("bad EOF status", err)
			}
			status = readStatus(sv.Bytes())
			sv.Release()
			c.ctx.Status = status
		}
		c.mode = modeAwaitCommandReply
		return EOFMessage{WarningCount: warnings, Status: status}, nil

	case first == iLocalInFile:
		reader.SkipByte()
		rest := reader.ReadRest()
		name := string(rest.Bytes())
		rest.Release()
		c.mode = modeAwaitLocalInfile
		return LocalInfileRequest{Filename: name}, nil

	default:
		n, ok2, err := reader.ReadLengthEncodedInt()
		if err != nil {
			return nil, protocolViolation("bad column count", err)
		}
		if !ok2 {
			return nil, protocolViolation("unexpected NULL column count", nil)
		}
		c.metaRemaining = int(n)
		c.columns = c.columns[:0]
		c.mode = modeAwaitResultMetadata
		return ColumnCount{Count: n}, nil
	}
}

func (c *MessageDuplexCodec) decodePreparedOK(reader *FieldReader) (ServerMessage, error) {
	reader.SkipByte() // 0x00

	idv, err := reader.ReadSizeFixedField(4)
	if err != nil {
		return nil, protocolViolation("bad statement id", err)
	}
	stmtID := le32(idv.Bytes())
	idv.Release()

	ncv, err := reader.ReadSizeFixedField(2)
	if err != nil {
		return nil, protocolViolation("bad column count", err)
	}
	numColumns := le16(ncv.Bytes())
	ncv.Release()

	npv, err := reader.ReadSizeFixedField(2)
	if err != nil {
		return nil, protocolViolation("bad param count", err)
	}
	numParams := le16(npv.Bytes())
	npv.Release()

	reader.Skip(1) // reserved

	var warnings uint16
	if reader.remaining() >= 2 {
		wv, err := reader.ReadSizeFixedField(2)
		if err != nil {
			return nil, protocolViolation("bad warning count", err)
		}
		warnings = le16(wv.Bytes())
		wv.Release()
	}

	c.pendingIsPrepare = false

	switch {
	case numParams > 0:
		pendingCols := numColumns
		c.metaRemaining = int(numParams)
		c.mode = modeAwaitResultMetadata
		c.afterMetadata = func() {
			if pendingCols > 0 {
				c.metaRemaining = int(pendingCols)
				c.mode = modeAwaitResultMetadata
				c.afterMetadata = func() { c.mode = modeAwaitCommandReply }
			} else {
				c.mode = modeAwaitCommandReply
			}
		}
	case numColumns > 0:
		c.metaRemaining = int(numColumns)
		c.mode = modeAwaitResultMetadata
		c.afterMetadata = func() { c.mode = modeAwaitCommandReply }
	default:
		c.mode = modeAwaitCommandReply
	}

	return PreparedOK{StatementID: stmtID, ColumnCount: numColumns, ParamCount: numParams, WarningCount: warnings}, nil
}

func (c *MessageDuplexCodec) decodeResultMetadata(reader *FieldReader) (ServerMessage, error) {
	if c.metaRemaining > 0 {
		col, err := c.decodeColumnDefinition(reader)
		if err != nil {
			return nil, err
		}
		c.metaRemaining--
		c.columns = append(c.columns, col)
		if c.metaRemaining == 0 && c.ctx.Capabilities&clientDeprecateEOF != 0 {
			c.finishMetadataBatch()
		}
		return col, nil
	}

	// CLIENT_DEPRECATE_EOF was not negotiated: one more packet, the
	// terminating EOF (or an ERR), closes this metadata batch.
	first, ok := reader.PeekByte()
	if !ok {
		return nil, protocolViolation("empty metadata terminator packet", nil)
	}
	if first == iERR {
		return c.decodeErrorPacket(reader)
	}
	if first != iEOF {
		return nil, protocolViolation("expected EOF after column definitions", nil)
	}

	reader.SkipByte()
	var status statusFlag
	var warnings uint16
	if reader.remaining() >= 4 {
		wv, err := reader.ReadSizeFixedField(2)
		if err != nil {
			return nil, protocolViolation("bad metadata EOF warning count", err)
		}
		warnings = le16(wv.Bytes())
		wv.Release()
		sv, err := reader.ReadSizeFixedField(2)
		if err != nil {
			return nil, protocolViolation("bad metadata EOF status", err)
		}
		status = readStatus(sv.Bytes())
		sv.Release()
		c.ctx.Status = status
	}
	c.finishMetadataBatch()
	return EOFMessage{WarningCount: warnings, Status: status}, nil
}

func (c *MessageDuplexCodec) finishMetadataBatch() {
	if c.afterMetadata != nil {
		fn := c.afterMetadata
		c.afterMetadata = nil
		fn()
		return
	}
	c.mode = modeAwaitResultRows
}

func (c *MessageDuplexCodec) decodeColumnDefinition(reader *FieldReader) (ColumnDefinition, error) {
	var col ColumnDefinition
	var err error
	if col.Catalog, err = readLenEncStr(reader); err != nil {
		return col, protocolViolation("bad column catalog", err)
	}
	if col.Schema, err = readLenEncStr(reader); err != nil {
		return col, protocolViolation("bad column schema", err)
	}
	if col.Table, err = readLenEncStr(reader); err != nil {
		return col, protocolViolation("bad column table", err)
	}
	if col.OrgTable, err = readLenEncStr(reader); err != nil {
		return col, protocolViolation("bad column org_table", err)
	}
	if col.Name, err = readLenEncStr(reader); err != nil {
		return col, protocolViolation("bad column name", err)
	}
	if col.OrgName, err = readLenEncStr(reader); err != nil {
		return col, protocolViolation("bad column org_name", err)
	}

	if _, _, err := reader.ReadLengthEncodedInt(); err != nil { // fixed-fields length, always 0x0c
		return col, protocolViolation("bad column fixed-length marker", err)
	}

	csv, err := reader.ReadSizeFixedField(2)
	if err != nil {
		return col, protocolViolation("bad column charset", err)
	}
	col.Charset = csv.Bytes()[0]
	csv.Release()

	clv, err := reader.ReadSizeFixedField(4)
	if err != nil {
		return col, protocolViolation("bad column length", err)
	}
	col.ColumnLength = le32(clv.Bytes())
	clv.Release()

	tv, err := reader.ReadSizeFixedField(1)
	if err != nil {
		return col, protocolViolation("bad column type", err)
	}
	col.Type = fieldType(tv.Bytes()[0])
	tv.Release()

	flv, err := reader.ReadSizeFixedField(2)
	if err != nil {
		return col, protocolViolation("bad column flags", err)
	}
	col.Flags = fieldFlag(le16(flv.Bytes()))
	flv.Release()

	dv, err := reader.ReadSizeFixedField(1)
	if err != nil {
		return col, protocolViolation("bad column decimals", err)
	}
	col.Decimals = dv.Bytes()[0]
	dv.Release()

	if reader.remaining() >= 2 {
		reader.Skip(2) // filler
	}

	return col, nil
}

func (c *MessageDuplexCodec) decodeRow(reader *FieldReader) (ServerMessage, error) {
	totalLen := reader.remaining()
	first, ok := reader.PeekByte()
	if !ok {
		return nil, protocolViolation("empty row packet", nil)
	}

	switch {
	case first == iERR:
		c.mode = modeAwaitCommandReply
		return c.decodeErrorPacket(reader)

	case first == iEOF && totalLen < 9:
		reader.SkipByte()
		var status statusFlag
		var warnings uint16
		if totalLen == 5 {
			wv, err := reader.ReadSizeFixedField(2)
			if err != nil {
				return nil, protocolViolation("bad row EOF warning count", err)
			}
			warnings = le16(wv.Bytes())
			wv.Release()
			sv, err := reader.ReadSizeFixedField(2)
			if err != nil {
				return nil, protocolViolation("bad row EOF status", err)
			}
			status = readStatus(sv.Bytes())
			sv.Release()
			c.ctx.Status = status
		}
		c.mode = modeAwaitCommandReply
		return EOFMessage{WarningCount: warnings, Status: status}, nil

	case first == iOK && c.ctx.Capabilities&clientDeprecateEOF != 0 && totalLen >= 7:
		msg, err := c.decodeOKPacket(reader)
		if err != nil {
			return nil, err
		}
		c.mode = modeAwaitCommandReply
		return msg, nil

	default:
		if c.resultNx == protocolBinary {
			return c.decodeBinaryRow(reader)
		}
		return c.decodeTextRow(reader)
	}
}

func (c *MessageDuplexCodec) decodeTextRow(reader *FieldReader) (ServerMessage, error) {
	fields := make([]FieldValue, len(c.columns))
	for i := range c.columns {
		v, err := reader.ReadLengthEncodedField()
		if err != nil {
			for j := 0; j < i; j++ {
				fields[j].Release()
			}
			return nil, protocolViolation("bad text row field", err)
		}
		fields[i] = v
	}
	return RowMessage{Binary: false, Fields: fields}, nil
}

func (c *MessageDuplexCodec) decodeBinaryRow(reader *FieldReader) (ServerMessage, error) {
	reader.SkipByte() // binary row packet header, always 0x00

	nullBitmapLen := (len(c.columns) + 7 + 2) / 8
	bmv, err := reader.ReadSizeFixedField(nullBitmapLen)
	if err != nil {
		return nil, protocolViolation("bad binary row null bitmap", err)
	}
	nullBitmap := append([]byte(nil), bmv.Bytes()...)
	bmv.Release()

	fields := make([]FieldValue, len(c.columns))
	for i, col := range c.columns {
		bytePos := (i + 2) / 8
		bitPos := uint((i + 2) % 8)
		if nullBitmap[bytePos]&(1<<bitPos) != 0 {
			fields[i] = nullFieldValue()
			continue
		}
		v, err := c.readBinaryFieldValue(reader, col.Type)
		if err != nil {
			for j := 0; j < i; j++ {
				fields[j].Release()
			}
			return nil, protocolViolation("bad binary row field", err)
		}
		fields[i] = v
	}
	return RowMessage{Binary: true, Fields: fields}, nil
}

// readBinaryFieldValue extracts one column's raw wire bytes per the
// binary protocol's per-type encoding (spec §1: interpreting those bytes
// as an application value is the external ValueDecoder's job — this only
// needs to know byte widths to keep framing correct for the columns that
// follow).
func (c *MessageDuplexCodec) readBinaryFieldValue(reader *FieldReader, t fieldType) (FieldValue, error) {
	switch t {
	case fieldTypeNULL:
		return nullFieldValue(), nil
	case fieldTypeTiny:
		return reader.ReadSizeFixedField(1)
	case fieldTypeShort, fieldTypeYear:
		return reader.ReadSizeFixedField(2)
	case fieldTypeLong, fieldTypeInt24:
		return reader.ReadSizeFixedField(4)
	case fieldTypeLongLong, fieldTypeDouble:
		return reader.ReadSizeFixedField(8)
	case fieldTypeFloat:
		return reader.ReadSizeFixedField(4)
	case fieldTypeDecimal, fieldTypeNewDecimal, fieldTypeVarChar, fieldTypeBit,
		fieldTypeEnum, fieldTypeSet, fieldTypeTinyBLOB, fieldTypeMediumBLOB,
		fieldTypeLongBLOB, fieldTypeBLOB, fieldTypeVarString, fieldTypeString,
		fieldTypeGeometry, fieldTypeJSON,
		fieldTypeDate, fieldTypeNewDate, fieldTypeTime, fieldTypeTimestamp, fieldTypeDateTime:
		return reader.ReadLengthEncodedField()
	default:
		return FieldValue{}, protocolViolation("unknown binary field type", nil)
	}
}

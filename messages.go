package mysqlcore

// ClientMessage / ServerMessage: the tagged variants of spec §3, grounded
// on packets.go's command-packet writers (writeCommandPacket family) and
// its phase-specific readers (readHandshakePacket, readResultSetHeaderPacket,
// readColumns, textRows/binaryRows.readRow, readAuthResult).

// ClientMessage is one outbound message. Each variant serializes itself
// into envelope-framed wire bytes and declares whether it owns buffers
// that must be released if the exchange is cancelled before it is ever
// sent (spec §3).
type ClientMessage interface {
	// Encode appends this message's envelope-framed bytes to buf,
	// consuming and advancing *seq.
	Encode(buf []byte, seq *byte) []byte
	// Disposable reports whether Dispose does real work.
	Disposable() bool
	// Dispose releases any owned buffers. Always safe to call.
	Dispose()
}

// simpleCommand covers every command-phase message whose payload is just
// the single command byte: Ping, Exit, Reset.
type simpleCommand struct{ cmd byte }

func (m simpleCommand) Encode(buf []byte, seq *byte) []byte {
	return append(buf, encodeEnvelopes(seq, []byte{m.cmd})...)
}
func (simpleCommand) Disposable() bool { return false }
func (simpleCommand) Dispose()         {}

// PingMessage is COM_PING: expects a single OK in reply.
func PingMessage() ClientMessage { return simpleCommand{comPing} }

// ExitMessage is COM_QUIT: the graceful-close request (spec §4.6 close()).
// The server never replies; Client.Close writes it and then closes the
// connection itself without waiting for the peer.
func ExitMessage() ClientMessage { return simpleCommand{comQuit} }

// ResetMessage is COM_RESET_CONNECTION: resets session state (but not the
// authenticated user) without a full reconnect.
func ResetMessage() ClientMessage { return simpleCommand{comResetConnection} }

// stringCommand covers command-phase messages whose payload is the
// command byte followed by a raw (not null-terminated, not
// length-prefixed) string: Query, Prepare.
type stringCommand struct {
	cmd byte
	arg string
}

func (m stringCommand) Encode(buf []byte, seq *byte) []byte {
	payload := make([]byte, 0, 1+len(m.arg))
	payload = append(payload, m.cmd)
	payload = append(payload, m.arg...)
	return append(buf, encodeEnvelopes(seq, payload)...)
}
func (stringCommand) Disposable() bool { return false }
func (stringCommand) Dispose()         {}

// QueryMessage is COM_QUERY: a text-protocol SQL statement.
func QueryMessage(sql string) ClientMessage { return stringCommand{comQuery, sql} }

// PrepareMessage is COM_STMT_PREPARE.
func PrepareMessage(sql string) ClientMessage { return stringCommand{comStmtPrepare, sql} }

// ExecuteMessage is COM_STMT_EXECUTE. Params is the already wire-encoded
// parameter block (NULL-bitmap + type tags + values): producing that
// encoding from application-level values is the ValueDecoder/type-
// conversion collaborator's job (spec §1, explicitly out of scope for
// this core), so this message only frames an opaque, pre-built block
// behind the statement id and cursor flags.
type ExecuteMessage struct {
	StmtID uint32
	Flags  byte // cursor type; 0 = CURSOR_TYPE_NO_CURSOR (spec §6)
	Params []byte
}

func (m *ExecuteMessage) Encode(buf []byte, seq *byte) []byte {
	payload := make([]byte, 0, 10+len(m.Params))
	payload = append(payload, comStmtExecute)
	payload = append(payload, byte(m.StmtID), byte(m.StmtID>>8), byte(m.StmtID>>16), byte(m.StmtID>>24))
	payload = append(payload, m.Flags)
	payload = append(payload, 0x01, 0x00, 0x00, 0x00) // iteration_count, always 1
	payload = append(payload, m.Params...)
	return append(buf, encodeEnvelopes(seq, payload)...)
}
func (m *ExecuteMessage) Disposable() bool { return len(m.Params) > 0 }
func (m *ExecuteMessage) Dispose()         { m.Params = nil }

// FetchMessage is COM_STMT_FETCH, used to pull the next batch of rows
// from a cursor-backed prepared statement.
type FetchMessage struct {
	StmtID   uint32
	RowCount uint32
}

func (m *FetchMessage) Encode(buf []byte, seq *byte) []byte {
	payload := []byte{
		comStmtFetch,
		byte(m.StmtID), byte(m.StmtID >> 8), byte(m.StmtID >> 16), byte(m.StmtID >> 24),
		byte(m.RowCount), byte(m.RowCount >> 8), byte(m.RowCount >> 16), byte(m.RowCount >> 24),
	}
	return append(buf, encodeEnvelopes(seq, payload)...)
}
func (*FetchMessage) Disposable() bool { return false }
func (*FetchMessage) Dispose()         {}

// CloseStatementMessage is COM_STMT_CLOSE. No response is sent by the
// server for this command.
type CloseStatementMessage struct{ StmtID uint32 }

func (m *CloseStatementMessage) Encode(buf []byte, seq *byte) []byte {
	payload := []byte{
		comStmtClose,
		byte(m.StmtID), byte(m.StmtID >> 8), byte(m.StmtID >> 16), byte(m.StmtID >> 24),
	}
	return append(buf, encodeEnvelopes(seq, payload)...)
}
func (*CloseStatementMessage) Disposable() bool { return false }
func (*CloseStatementMessage) Dispose()         {}

// LocalInfileReply answers a LocalInfileRequest: Data is the full file
// contents (the codec splits it into envelopes, including the
// maxPacketSize continuation case), or nil to decline by sending an empty
// packet. Owns Data until sent or disposed.
type LocalInfileReply struct {
	Data []byte
}

func (m *LocalInfileReply) Encode(buf []byte, seq *byte) []byte {
	return append(buf, encodeEnvelopes(seq, m.Data)...)
}
func (m *LocalInfileReply) Disposable() bool { return len(m.Data) > 0 }
func (m *LocalInfileReply) Dispose()         { m.Data = nil }

// rawCommand wraps an already fully-built payload as a ClientMessage. The
// handshake orchestrator (handshake.go) does not use it: it frames its
// HandshakeResponse and auth replies with encodeEnvelopes directly.
type rawCommand struct {
	payload []byte
}

func (m rawCommand) Encode(buf []byte, seq *byte) []byte {
	return append(buf, encodeEnvelopes(seq, m.payload)...)
}
func (rawCommand) Disposable() bool { return false }
func (rawCommand) Dispose()         {}

// ServerMessage is a tagged variant of every message the duplex codec can
// decode (spec §3). Consumers type-switch on the concrete type; decoding
// is context-sensitive (C3 holds the decode mode), so the same leading
// wire byte maps to different Go types depending on phase.
type ServerMessage interface{ isServerMessage() }

// HandshakeGreeting is the initial server greeting (HandshakeV10).
type HandshakeGreeting struct {
	ProtocolVersion byte
	ServerVersion   string
	ConnectionID    uint32
	Capabilities    capabilityFlag
	Collation       byte
	Status          statusFlag
	AuthPluginData  []byte
	AuthPluginName  string
}

func (HandshakeGreeting) isServerMessage() {}

// OKMessage is a generic OK packet (spec §6: 0x00, payload length >= 7).
type OKMessage struct {
	AffectedRows uint64
	LastInsertID uint64
	Status       statusFlag
	WarningCount uint16
	Info         string
}

func (OKMessage) isServerMessage() {}

// EOFMessage is a generic EOF packet (0xfe, payload length < 9).
type EOFMessage struct {
	WarningCount uint16
	Status       statusFlag
}

func (EOFMessage) isServerMessage() {}

// ErrorMessage carries a decoded ERR packet.
type ErrorMessage struct {
	Err *ServerError
}

func (ErrorMessage) isServerMessage() {}

// LocalInfileRequest is the server asking the client to stream a local
// file's contents (0xfb in command-reply position).
type LocalInfileRequest struct {
	Filename string
}

func (LocalInfileRequest) isServerMessage() {}

// ColumnCount is the leading varint of a result set header, naming how
// many ColumnDefinition messages follow.
type ColumnCount struct {
	Count uint64
}

func (ColumnCount) isServerMessage() {}

// ColumnDefinition is one ColumnDefinition41 packet.
type ColumnDefinition struct {
	Catalog, Schema, Table, OrgTable, Name, OrgName string
	Charset                                         byte
	ColumnLength                                    uint32
	Type                                             fieldType
	Flags                                            fieldFlag
	Decimals                                         byte
}

func (ColumnDefinition) isServerMessage() {}

// RowMessage is one result-set row. Fields holds one FieldValue per
// column in column order; each is reference-counted and must be released
// by whichever handler or discard hook consumes it (spec Invariant 3).
type RowMessage struct {
	Binary bool
	Fields []FieldValue
}

func (RowMessage) isServerMessage() {}

// PreparedOK is the COM_STMT_PREPARE response header.
type PreparedOK struct {
	StatementID  uint32
	ColumnCount  uint16
	ParamCount   uint16
	WarningCount uint16
}

func (PreparedOK) isServerMessage() {}

// AuthSwitchRequest asks the client to restart authentication with a
// different plugin.
type AuthSwitchRequest struct {
	PluginName string
	PluginData []byte
}

func (AuthSwitchRequest) isServerMessage() {}

// AuthMoreData carries an opaque plugin-specific continuation payload
// (e.g. caching_sha2_password's fast-auth result or RSA public key).
type AuthMoreData struct {
	Data []byte
}

func (AuthMoreData) isServerMessage() {}

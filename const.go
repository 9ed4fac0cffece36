package mysqlcore

// Packets documentation:
// https://dev.mysql.com/doc/dev/mysql-server/latest/page_protocol.html

const (
	maxPacketSize       = 1<<24 - 1 // envelope payload ceiling, spec §3
	minProtocolVersion  = 10
	defaultCollation    = "utf8mb4_general_ci"
	defaultAuthPlugin   = "mysql_native_password"
	scrambleLength      = 20
)

// packet indicator bytes, the first byte of most server-to-client payloads.
const (
	iOK          byte = 0x00
	iAuthMore    byte = 0x01
	iLocalInFile byte = 0xfb
	iEOF         byte = 0xfe
	iERR         byte = 0xff
)

// capabilityFlag is the 32-bit negotiated feature set between client and
// server (spec §6).
type capabilityFlag uint32

const (
	clientLongPassword capabilityFlag = 1 << iota
	clientFoundRows
	clientLongFlag
	clientConnectWithDB
	clientNoSchema
	clientCompress
	clientODBC
	clientLocalFiles
	clientIgnoreSpace
	clientProtocol41
	clientInteractive
	clientSSL
	clientIgnoreSigpipe
	clientTransactions
	clientReserved
	clientSecureConn
	clientMultiStatements
	clientMultiResults
	clientPSMultiResults
	clientPluginAuth
	clientConnectAttrs
	clientPluginAuthLenEncClientData
	clientCanHandleExpiredPasswords
	clientSessionTrack
	clientDeprecateEOF
)

// statusFlag mirrors the server_status bitfield carried on OK/EOF packets.
type statusFlag uint16

const (
	statusInTrans statusFlag = 1 << iota
	statusInAutocommit
	_
	statusMoreResultsExists
	statusNoGoodIndexUsed
	statusNoIndexUsed
	statusCursorExists
	statusLastRowSent
	statusDBDropped
	statusNoBackslashEscapes
	statusMetadataChanged
	statusQueryWasSlow
	statusPSOutParams
	statusInTransReadonly
	statusSessionStateChanged
)

func readStatus(b []byte) statusFlag {
	return statusFlag(b[0]) | statusFlag(b[1])<<8
}

// fieldType is the wire-level column type tag used in both column
// definitions and binary-protocol row encoding.
type fieldType byte

const (
	fieldTypeDecimal fieldType = iota
	fieldTypeTiny
	fieldTypeShort
	fieldTypeLong
	fieldTypeFloat
	fieldTypeDouble
	fieldTypeNULL
	fieldTypeTimestamp
	fieldTypeLongLong
	fieldTypeInt24
	fieldTypeDate
	fieldTypeTime
	fieldTypeDateTime
	fieldTypeYear
	fieldTypeNewDate
	fieldTypeVarChar
	fieldTypeBit
)

const (
	fieldTypeJSON fieldType = iota + 0xf5
	fieldTypeNewDecimal
	fieldTypeEnum
	fieldTypeSet
	fieldTypeTinyBLOB
	fieldTypeMediumBLOB
	fieldTypeLongBLOB
	fieldTypeBLOB
	fieldTypeVarString
	fieldTypeString
	fieldTypeGeometry
)

// fieldFlag carries per-column attribute bits (unsigned, not-null, ...).
type fieldFlag uint16

const (
	flagNotNULL fieldFlag = 1 << iota
	flagPriKey
	flagUniqueKey
	flagMultipleKey
	flagBLOB
	flagUnsigned
	flagZeroFill
	flagBinary
	flagEnum
	flagAutoIncrement
	flagTimestamp
	flagSet
)

// command bytes, the first byte of the payload of every client-initiated
// command-phase message (spec §3 ClientMessage).
const (
	comSleep byte = iota
	comQuit
	comInitDB
	comQuery
	comFieldList
	comCreateDB
	comDropDB
	comRefresh
	comShutdown
	comStatistics
	comProcessInfo
	comConnect
	comProcessKill
	comDebug
	comPing
	comTime
	comDelayedInsert
	comChangeUser
	comBinlogDump
	comTableDump
	comConnectOut
	comRegisterSlave
	comStmtPrepare
	comStmtExecute
	comStmtSendLongData
	comStmtClose
	comStmtReset
	comSetOption
	comStmtFetch
)

// comResetConnection (COM_RESET_CONNECTION, 0x1f) sits outside the
// contiguous iota block above because older protocol references omit it;
// its wire value is fixed by the MySQL protocol regardless of client
// library vintage.
const comResetConnection byte = 0x1f

// clientFlagsBase is the capability mask this client always requests,
// before config-driven bits (TLS, multi-statements, found-rows) are OR'd
// in by the handshake orchestrator (C7, grounded on the teacher's
// writeHandshakeResponsePacket).
const clientFlagsBase = clientProtocol41 |
	clientSecureConn |
	clientLongPassword |
	clientTransactions |
	clientLocalFiles |
	clientPluginAuth |
	clientMultiResults |
	clientConnectAttrs

package mysqlcore

// AuthPlugin (C9, spec §4.9) computes the scramble bytes MySQL's
// pluggable authentication protocol exchanges during the handshake.
// Grounded on the teacher's auth call sites in writeHandshakeResponsePacket
// and readAuthResult; the teacher's own scramble math lived in an
// auth.go this pack's retrieval did not surface, so each plugin here is
// built directly from its published wire-format specification.
type AuthPlugin interface {
	Name() string
	// Start computes the auth-response bytes embedded in the
	// HandshakeResponse41 packet (or an AuthSwitchResponse, when this
	// plugin is adopted mid-handshake), given the server's challenge and
	// whether the channel is already running over TLS.
	Start(password string, scramble []byte, tlsActive bool) ([]byte, error)
}

// authAction tells the handshake orchestrator what to do after a
// ContinuablePlugin examines one AuthMoreData payload.
type authAction int

const (
	authActionNone        authAction = iota // plugin is satisfied; await OK/ERR
	authActionReply                         // send reply as a raw AuthSwitchResponse
	authActionRequestPubKey                 // send a single 0x02 byte requesting the server's RSA key
)

type authResult struct {
	action authAction
	reply  []byte
}

// ContinuablePlugin is implemented by plugins that may need more than one
// round trip after Start: caching_sha2_password's fast/full auth split,
// and sha256_password's RSA key exchange.
type ContinuablePlugin interface {
	AuthPlugin
	Continue(password string, scramble []byte, data []byte, tlsActive bool) (authResult, error)
}

// NewAuthPlugin builds the plugin the server named, or fails with
// ErrUnsupportedAuthPlugin. The four plugins below are the mandatory
// in-scope exceptions to the "auth plugin catalogue is external" scope
// line (spec §1): without them this core cannot complete a stock
// server's handshake at all.
func NewAuthPlugin(name string) (AuthPlugin, error) {
	switch name {
	case "mysql_native_password":
		return &nativePasswordPlugin{}, nil
	case "caching_sha2_password":
		return &cachingSha2Plugin{}, nil
	case "sha256_password":
		return &sha256Plugin{}, nil
	case "client_ed25519":
		return ed25519Plugin{}, nil
	default:
		return nil, wrapError(KindAuthFailed, "unsupported auth plugin "+name, ErrUnsupportedAuthPlugin)
	}
}

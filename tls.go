package mysqlcore

import (
	"context"
	"crypto/tls"
	"net"
)

// SslBridgeHandler (C4, spec §4.4): the in-band TLS upgrade MySQL's wire
// protocol uses in place of a dedicated STARTTLS command. Grounded on
// packets.go's writeHandshakeResponsePacket, whose `mc.cfg.TLS != nil`
// branch writes this same abbreviated header before the real response
// and then rewraps mc.netConn — collapsed here into its own component so
// C7 (handshake.go) can call it without owning TLS policy itself.
type SslBridgeHandler struct {
	mode   TLSMode
	tlsCfg *tls.Config
}

func NewSslBridgeHandler(mode TLSMode, tlsCfg *tls.Config) *SslBridgeHandler {
	return &SslBridgeHandler{mode: mode, tlsCfg: tlsCfg}
}

// Negotiate decides whether the handshake orchestrator should attempt
// the upgrade, given the capability flags the server just advertised.
// attempt is false with a nil error for both TLSDisabled and a
// TLSPreferred fallback to cleartext (spec's SslState.UNSUPPORTED path).
func (h *SslBridgeHandler) Negotiate(serverCaps capabilityFlag) (attempt bool, err error) {
	if h.mode == TLSDisabled {
		return false, nil
	}
	if serverCaps&clientSSL == 0 {
		if h.mode == TLSRequired {
			return false, ErrNoTLS
		}
		return false, nil
	}
	return true, nil
}

// SSLRequest builds the abbreviated pre-upgrade packet (spec §4.4):
// capability flags with clientSSL forced on, a 4-byte max-packet-size
// field, one charset/collation byte, and 23 reserved zero bytes.
func SSLRequest(caps capabilityFlag, collation byte, maxPacket uint32) []byte {
	payload := make([]byte, 4+4+1+23)
	c := caps | clientSSL
	payload[0] = byte(c)
	payload[1] = byte(c >> 8)
	payload[2] = byte(c >> 16)
	payload[3] = byte(c >> 24)
	payload[4] = byte(maxPacket)
	payload[5] = byte(maxPacket >> 8)
	payload[6] = byte(maxPacket >> 16)
	payload[7] = byte(maxPacket >> 24)
	payload[8] = collation
	return payload
}

// Upgrade wraps conn in a TLS client connection and completes the TLS
// handshake, returning the net.Conn the rest of the connection engine
// must read and write through from this point on. The MySQL handshake
// itself resumes immediately afterward, entirely inside the new TLS
// session (the server never sees a second SSLRequest).
func (h *SslBridgeHandler) Upgrade(ctx context.Context, conn net.Conn, serverName string) (net.Conn, error) {
	cfg := h.tlsCfg
	if cfg == nil {
		cfg = &tls.Config{}
	}
	if cfg.ServerName == "" && serverName != "" {
		clone := cfg.Clone()
		clone.ServerName = serverName
		cfg = clone
	}
	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, tlsNegotiationError("TLS handshake failed", err)
	}
	return tlsConn, nil
}

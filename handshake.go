package mysqlcore

import (
	"context"
	"encoding/binary"
)

// performHandshake (C7, spec §4.7) runs the connection's privileged first
// exchange: read the greeting, optionally bridge to TLS, send the
// handshake response, and follow the server through as many
// AuthSwitchRequest/AuthMoreData round trips as its chosen plugin needs,
// until OK or ERR. Grounded on packets.go's readHandshakePacket /
// writeHandshakeResponsePacket / readAuthResult, collapsed into one
// function driving the codec's decode modes directly instead of three
// separate blocking reads.
func (c *Client) performHandshake(ctx context.Context) error {
	greetingMsg, err := c.readOneMessage(ctx)
	if err != nil {
		return err
	}
	greeting, ok := greetingMsg.(HandshakeGreeting)
	if !ok {
		if errMsg, ok := greetingMsg.(ErrorMessage); ok {
			return errMsg.Err
		}
		return protocolViolation("expected handshake greeting", nil)
	}
	c.lifecycle.Advance(PhaseHandshake)

	// The client's first reply carries sequence id 1, immediately after
	// the server's seq-0 greeting.
	c.codec.outSeq = 1

	scramble := greeting.AuthPluginData
	pluginName := greeting.AuthPluginName
	if pluginName == "" {
		pluginName = defaultAuthPlugin
	}
	serverCaps := greeting.Capabilities

	collation, ok := collationID(c.cfg.collationOrDefault())
	if !ok {
		return protocolViolation("unknown collation "+c.cfg.collationOrDefault(), nil)
	}

	tlsActive := false
	if attempt, err := c.ssl.Negotiate(serverCaps); err != nil {
		return err
	} else if attempt {
		c.lifecycle.Advance(PhaseSSL)
		sslReq := SSLRequest(clientFlagsBase, collation, uint32(c.cfg.MaxAllowedPacket))
		if err := c.writeRaw(encodeEnvelopes(&c.codec.outSeq, sslReq)); err != nil {
			return err
		}
		upgraded, err := c.ssl.Upgrade(ctx, c.conn, "")
		if err != nil {
			return err
		}
		c.conn = upgraded
		tlsActive = true
	}

	c.lifecycle.Advance(PhaseAuth)

	plugin, err := NewAuthPlugin(pluginName)
	if err != nil {
		return err
	}
	authResponse, err := plugin.Start(c.cfg.Passwd, scramble, tlsActive)
	if err != nil {
		return err
	}

	resp := buildHandshakeResponse(c.cfg, serverCaps, collation, tlsActive, pluginName, authResponse)
	if err := c.writeRaw(encodeEnvelopes(&c.codec.outSeq, resp)); err != nil {
		return err
	}

	for {
		msg, err := c.readOneMessage(ctx)
		if err != nil {
			return err
		}
		switch m := msg.(type) {
		case OKMessage:
			c.ctx.Status = m.Status
			c.lifecycle.Advance(PhaseCommand)
			return nil

		case ErrorMessage:
			return authFailedError("authentication failed", m.Err)

		case AuthSwitchRequest:
			scramble = m.PluginData
			plugin, err = NewAuthPlugin(m.PluginName)
			if err != nil {
				return err
			}
			reply, err := plugin.Start(c.cfg.Passwd, scramble, tlsActive)
			if err != nil {
				return err
			}
			if err := c.writeRaw(encodeEnvelopes(&c.codec.outSeq, reply)); err != nil {
				return err
			}

		case AuthMoreData:
			cp, ok := plugin.(ContinuablePlugin)
			if !ok {
				return protocolViolation("server sent AuthMoreData for a non-continuable plugin", nil)
			}
			res, err := cp.Continue(c.cfg.Passwd, scramble, m.Data, tlsActive)
			if err != nil {
				return err
			}
			switch res.action {
			case authActionNone:
				// nothing to send; the next message is OK or ERR
			case authActionReply:
				if err := c.writeRaw(encodeEnvelopes(&c.codec.outSeq, res.reply)); err != nil {
					return err
				}
			case authActionRequestPubKey:
				if err := c.writeRaw(encodeEnvelopes(&c.codec.outSeq, []byte{0x02})); err != nil {
					return err
				}
			}

		default:
			return protocolViolation("unexpected message during authentication", nil)
		}
	}
}

// readOneMessage pulls bytes off the socket until the codec (still in
// its handshake/auth decode modes, outside the RequestQueue's purview)
// has decoded at least one ServerMessage, returning them one at a time.
func (c *Client) readOneMessage(ctx context.Context) (ServerMessage, error) {
	for len(c.pendingHandshakeMsgs) == 0 {
		buf := make([]byte, 4096)
		n, err := c.conn.Read(buf)
		if err != nil {
			return nil, wrapError(KindUnexpectedClosed, "read failed during handshake", err)
		}
		msgs, decodeErr := c.codec.Feed(buf[:n])
		c.pendingHandshakeMsgs = append(c.pendingHandshakeMsgs, msgs...)
		if decodeErr != nil {
			return nil, decodeErr
		}
	}
	msg := c.pendingHandshakeMsgs[0]
	c.pendingHandshakeMsgs = c.pendingHandshakeMsgs[1:]
	return msg, nil
}

// buildHandshakeResponse encodes the HandshakeResponse41 payload (spec
// §4.7, §6): negotiated capability flags, the fixed header, the
// username, the auth-plugin response in whichever of the three shapes
// the negotiated capabilities select, and the optional database,
// plugin-name, and connection-attributes trailers.
func buildHandshakeResponse(cfg *Config, serverCaps capabilityFlag, collation byte, tlsActive bool, pluginName string, authResponse []byte) []byte {
	caps := clientFlagsBase & serverCaps
	caps |= clientPluginAuth
	if tlsActive {
		caps |= clientSSL
	}
	if cfg.DBName != "" {
		caps |= clientConnectWithDB
	}
	if cfg.MultiStatements {
		caps |= clientMultiStatements
	}
	if cfg.ClientFoundRows {
		caps |= clientFoundRows
	}
	if cfg.AllowLocalInfile {
		caps |= clientLocalFiles
	}
	if len(cfg.ConnAttrs) > 0 {
		caps |= clientConnectAttrs
	}
	if serverCaps&clientPluginAuthLenEncClientData != 0 {
		caps |= clientPluginAuthLenEncClientData
	}

	payload := make([]byte, 0, 64+len(authResponse)+len(cfg.User)+len(cfg.DBName))

	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(caps))
	payload = append(payload, hdr[:]...)

	var maxPkt [4]byte
	binary.LittleEndian.PutUint32(maxPkt[:], uint32(cfg.MaxAllowedPacket))
	payload = append(payload, maxPkt[:]...)

	payload = append(payload, collation)
	payload = append(payload, make([]byte, 23)...)

	payload = append(payload, cfg.User...)
	payload = append(payload, 0)

	switch {
	case caps&clientPluginAuthLenEncClientData != 0:
		payload = appendLengthEncodedInteger(payload, uint64(len(authResponse)))
		payload = append(payload, authResponse...)
	case caps&clientSecureConn != 0:
		payload = append(payload, byte(len(authResponse)))
		payload = append(payload, authResponse...)
	default:
		payload = append(payload, authResponse...)
		payload = append(payload, 0)
	}

	if caps&clientConnectWithDB != 0 {
		payload = append(payload, cfg.DBName...)
		payload = append(payload, 0)
	}

	if caps&clientPluginAuth != 0 {
		payload = append(payload, pluginName...)
		payload = append(payload, 0)
	}

	if caps&clientConnectAttrs != 0 {
		var attrs []byte
		for k, v := range cfg.ConnAttrs {
			attrs = appendLengthEncodedString(attrs, []byte(k))
			attrs = appendLengthEncodedString(attrs, []byte(v))
		}
		payload = appendLengthEncodedInteger(payload, uint64(len(attrs)))
		payload = append(payload, attrs...)
	}

	return payload
}

package mysqlcore

// sha256Plugin implements sha256_password (spec §4.9): always full
// authentication, no SHA256 fast path to consult. Under TLS it sends the
// cleartext password; otherwise it sends the password RSA-encrypted.
type sha256Plugin struct {
	awaitingPubKey bool
}

func (*sha256Plugin) Name() string { return "sha256_password" }

func (p *sha256Plugin) Start(password string, scramble []byte, tlsActive bool) ([]byte, error) {
	if password == "" {
		return nil, nil
	}
	if tlsActive {
		return append([]byte(password), 0), nil
	}
	p.awaitingPubKey = true
	return []byte{0x01}, nil // request the server's RSA public key
}

// Continue only ever sees the server's PEM-encoded public key, sent in
// response to Start's 0x01 request.
func (p *sha256Plugin) Continue(password string, scramble []byte, data []byte, tlsActive bool) (authResult, error) {
	pub, err := parseRSAPublicKeyPEM(data)
	if err != nil {
		return authResult{}, err
	}
	enc, err := encryptPassword(password, scramble, pub)
	if err != nil {
		return authResult{}, err
	}
	return authResult{action: authActionReply, reply: enc}, nil
}

package mysqlcore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
)

// cachingSha2Plugin implements caching_sha2_password (spec §4.9): a fast
// path (a SHA256 XOR scramble checked against the server's auth cache)
// and, on a cache miss, a full RSA-encrypted-password round trip.
type cachingSha2Plugin struct {
	pubKey         *rsa.PublicKey
	awaitingPubKey bool
}

func (*cachingSha2Plugin) Name() string { return "caching_sha2_password" }

func (*cachingSha2Plugin) Start(password string, scramble []byte, tlsActive bool) ([]byte, error) {
	if password == "" {
		return nil, nil
	}
	return scrambleSHA256(password, scramble), nil
}

// Continue handles the plugin's two possible AuthMoreData shapes: a
// single status byte (0x03 fast-auth success, 0x04 full authentication
// required) or, once a full-auth RSA exchange is under way, the server's
// PEM-encoded public key.
func (p *cachingSha2Plugin) Continue(password string, scramble []byte, data []byte, tlsActive bool) (authResult, error) {
	if p.awaitingPubKey {
		p.awaitingPubKey = false
		pub, err := parseRSAPublicKeyPEM(data)
		if err != nil {
			return authResult{}, err
		}
		p.pubKey = pub
		enc, err := encryptPassword(password, scramble, p.pubKey)
		if err != nil {
			return authResult{}, err
		}
		return authResult{action: authActionReply, reply: enc}, nil
	}

	if len(data) == 0 {
		return authResult{}, protocolViolation("empty caching_sha2_password AuthMoreData", nil)
	}
	switch data[0] {
	case 0x03: // fast-auth success; a regular OK packet follows
		return authResult{action: authActionNone}, nil
	case 0x04: // full authentication required
		if tlsActive {
			return authResult{action: authActionReply, reply: append([]byte(password), 0)}, nil
		}
		if p.pubKey != nil {
			enc, err := encryptPassword(password, scramble, p.pubKey)
			if err != nil {
				return authResult{}, err
			}
			return authResult{action: authActionReply, reply: enc}, nil
		}
		p.awaitingPubKey = true
		return authResult{action: authActionRequestPubKey}, nil
	default:
		return authResult{}, protocolViolation("unrecognized caching_sha2_password AuthMoreData", nil)
	}
}

// scrambleSHA256 computes SHA256(password) XOR SHA256(SHA256(SHA256(password)) + scramble),
// the caching_sha2_password fast-path challenge-response.
func scrambleSHA256(password string, scramble []byte) []byte {
	pwdHash := sha256.Sum256([]byte(password))
	pwdDoubleHash := sha256.Sum256(pwdHash[:])

	h := sha256.New()
	h.Write(pwdDoubleHash[:])
	h.Write(scramble)
	crossHash := h.Sum(nil)

	out := make([]byte, len(pwdHash))
	for i := range out {
		out[i] = pwdHash[i] ^ crossHash[i]
	}
	return out
}

func parseRSAPublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, authFailedError("invalid RSA public key from server", nil)
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, authFailedError("invalid RSA public key from server", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, authFailedError("server public key is not RSA", nil)
	}
	return rsaPub, nil
}

// encryptPassword XORs the NUL-terminated password with the repeating
// scramble and RSA-OAEP/SHA1-encrypts the result: the wire format both
// caching_sha2_password and sha256_password use for their full-auth RSA
// exchange.
func encryptPassword(password string, scramble []byte, pub *rsa.PublicKey) ([]byte, error) {
	pwd := append([]byte(password), 0)
	xored := make([]byte, len(pwd))
	for i := range pwd {
		xored[i] = pwd[i] ^ scramble[i%len(scramble)]
	}
	enc, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, xored, nil)
	if err != nil {
		return nil, authFailedError("RSA encryption of password failed", err)
	}
	return enc, nil
}

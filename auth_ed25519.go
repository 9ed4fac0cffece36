package mysqlcore

import (
	"crypto/sha512"

	"filippo.io/edwards25519"
)

// ed25519Plugin implements MariaDB's client_ed25519 plugin: the client
// signs the server's scramble with an Ed25519 key derived from the
// password. Built on filippo.io/edwards25519's scalar/point primitives
// directly, rather than the stdlib ed25519 package, since the signature
// here is computed over a server-supplied nonce instead of from a fixed
// 32-byte seed via the stdlib's NewKeyFromSeed entry point.
type ed25519Plugin struct{}

func (ed25519Plugin) Name() string { return "client_ed25519" }

func (ed25519Plugin) Start(password string, scramble []byte, tlsActive bool) ([]byte, error) {
	if password == "" {
		return nil, nil
	}

	seed := sha512.Sum512([]byte(password))

	scalar, err := edwards25519.NewScalar().SetBytesWithClamping(seed[:32])
	if err != nil {
		return nil, authFailedError("ed25519 key derivation failed", err)
	}
	prefix := seed[32:]

	pub := new(edwards25519.Point).ScalarBaseMult(scalar)
	pubBytes := pub.Bytes()

	nonceHash := sha512.New()
	nonceHash.Write(prefix)
	nonceHash.Write(scramble)
	r, err := edwards25519.NewScalar().SetUniformBytes(nonceHash.Sum(nil))
	if err != nil {
		return nil, authFailedError("ed25519 nonce derivation failed", err)
	}
	R := new(edwards25519.Point).ScalarBaseMult(r)
	rBytes := R.Bytes()

	challengeHash := sha512.New()
	challengeHash.Write(rBytes)
	challengeHash.Write(pubBytes)
	challengeHash.Write(scramble)
	k, err := edwards25519.NewScalar().SetUniformBytes(challengeHash.Sum(nil))
	if err != nil {
		return nil, authFailedError("ed25519 challenge derivation failed", err)
	}

	s := edwards25519.NewScalar().MultiplyAdd(k, scalar, r)

	sig := make([]byte, 64)
	copy(sig[:32], rBytes)
	copy(sig[32:], s.Bytes())
	return sig, nil
}

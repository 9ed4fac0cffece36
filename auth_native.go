package mysqlcore

import "crypto/sha1"

// nativePasswordPlugin implements mysql_native_password (spec §4.9): a
// single-round SHA1 XOR scramble. No AuthMoreData ever follows it, so it
// does not implement ContinuablePlugin.
type nativePasswordPlugin struct{}

func (*nativePasswordPlugin) Name() string { return "mysql_native_password" }

func (*nativePasswordPlugin) Start(password string, scramble []byte, tlsActive bool) ([]byte, error) {
	if password == "" {
		return nil, nil
	}
	return scrambleSHA1(password, scramble), nil
}

// scrambleSHA1 computes SHA1(password) XOR SHA1(scramble + SHA1(SHA1(password))),
// the mysql_native_password challenge-response.
func scrambleSHA1(password string, scramble []byte) []byte {
	pwdHash := sha1.Sum([]byte(password))
	pwdDoubleHash := sha1.Sum(pwdHash[:])

	h := sha1.New()
	h.Write(scramble)
	h.Write(pwdDoubleHash[:])
	crossHash := h.Sum(nil)

	out := make([]byte, len(pwdHash))
	for i := range out {
		out[i] = pwdHash[i] ^ crossHash[i]
	}
	return out
}

package mysqlcore

import (
	"crypto/tls"
	"time"
)

// TLSMode selects how the SslBridgeHandler (C4) treats the server's
// advertised CLIENT_SSL support.
type TLSMode int

const (
	// TLSDisabled never attempts the in-band upgrade.
	TLSDisabled TLSMode = iota
	// TLSPreferred upgrades when the server supports it, falling back to
	// cleartext (and firing SslState.UNSUPPORTED) otherwise.
	TLSPreferred
	// TLSRequired fails the connection if the server does not advertise
	// CLIENT_SSL.
	TLSRequired
)

// Config collects everything the handshake orchestrator (C7) and the
// connection engine (C6) need to open and authenticate a connection. It is
// a plain struct populated by the caller or an external URL-parsing
// collaborator (out of scope, spec §1); this module never parses a DSN
// itself.
type Config struct {
	Net     string // "tcp" or "unix", passed to net.Dialer.DialContext
	Addr    string
	User    string
	Passwd  string
	DBName  string

	Collation string // e.g. "utf8mb4_general_ci"; empty selects defaultCollation

	TLSMode   TLSMode
	TLSConfig *tls.Config // consulted only when TLSMode != TLSDisabled

	ClientFoundRows  bool
	MultiStatements  bool
	AllowLocalInfile bool

	// ConnAttrs are sent as the handshake response's connection-attributes
	// key/value block (spec §4.10).
	ConnAttrs map[string]string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	MaxAllowedPacket int

	Logger Logger
}

// Option mutates a Config being built, the teacher's functional-option
// idiom (dsn.go) generalized beyond DSN parsing.
type Option func(*Config)

// NewConfig returns a Config with the defaults this module requires to
// function (bounded packet size, a no-op Logger) before any Option runs.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Net:              "tcp",
		MaxAllowedPacket: 64 << 20,
		Logger:           nopLogger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func WithAddr(addr string) Option { return func(c *Config) { c.Addr = addr } }

func WithCredentials(user, passwd string) Option {
	return func(c *Config) {
		c.User = user
		c.Passwd = passwd
	}
}

func WithDBName(name string) Option { return func(c *Config) { c.DBName = name } }

func WithCollation(name string) Option { return func(c *Config) { c.Collation = name } }

func WithTLS(mode TLSMode, tlsCfg *tls.Config) Option {
	return func(c *Config) {
		c.TLSMode = mode
		c.TLSConfig = tlsCfg
	}
}

func WithLogger(l Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

func (c *Config) collationOrDefault() string {
	if c.Collation == "" {
		return defaultCollation
	}
	return c.Collation
}

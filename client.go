package mysqlcore

import (
	"context"
	"net"
	"sync"
)

// Client (C6, spec §4.6) owns the socket and wires the envelope slicer,
// the duplex codec, the optional TLS bridge, and the request queue
// together into the connection-engine surface spec §4.6 names. Grounded
// on connection_go18.go's mysqlConn plus its readLoop/writeLoop pair,
// generalized from database/sql/driver.Conn's synchronous call shape
// into Exchange()'s pull-cursor API.
type Client struct {
	cfg *Config

	conn net.Conn

	ctx       *ConnectionContext
	codec     *MessageDuplexCodec
	queue     *RequestQueue
	lifecycle *Lifecycle
	ssl       *SslBridgeHandler

	backpressure *BackpressureGate

	writeMu sync.Mutex

	pendingHandshakeMsgs []ServerMessage
}

// Connect dials cfg.Addr, performs the handshake (including any TLS
// bridge and authentication round trips), and starts the background read
// loop. The returned Client is in PhaseCommand and ready for Exchange.
func Connect(ctx context.Context, cfg *Config) (*Client, error) {
	dialer := &net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, cfg.Net, cfg.Addr)
	if err != nil {
		return nil, wrapError(KindUnexpectedClosed, "dial failed", err)
	}

	connCtx := &ConnectionContext{}
	c := &Client{
		cfg:          cfg,
		conn:         conn,
		ctx:          connCtx,
		codec:        NewMessageDuplexCodec(connCtx),
		lifecycle:    newLifecycle(),
		ssl:          NewSslBridgeHandler(cfg.TLSMode, cfg.TLSConfig),
		backpressure: NewBackpressureGate(64),
	}
	c.queue = NewRequestQueue(c.activateTask)

	stop := watchCancel(ctx, func() { conn.Close() })
	err = c.performHandshake(ctx)
	stop()
	if err != nil {
		conn.Close()
		return nil, err
	}

	go c.readLoop()
	cfg.Logger.Print("mysqlcore: connected: conn_id=", connCtx.ConnectionID, " server=", connCtx.ServerVersion)
	return c, nil
}

// Exchange submits msg as a new exchange and returns a pull cursor over
// its replies. isTerminal decides, for each decoded ServerMessage,
// whether the exchange is now complete.
func (c *Client) Exchange(kind ExchangeKind, msg ClientMessage, isTerminal func(ServerMessage) bool) (*Exchange, error) {
	if c.lifecycle.Current() != PhaseCommand {
		return nil, exchangeClosedError()
	}
	if err := c.backpressure.TryAcquire(); err != nil {
		return nil, err
	}
	ex, task := NewExchange(kind, msg, isTerminal)
	if err := c.queue.Submit(task); err != nil {
		c.backpressure.Release()
		return nil, err
	}
	go func() {
		<-task.done
		c.backpressure.Release()
	}()
	return ex, nil
}

func (c *Client) activateTask(t *RequestTask) error {
	c.codec.BeginExchange(t.Kind)
	return c.writeMessage(t.Message)
}

func (c *Client) writeMessage(msg ClientMessage) error {
	return c.writeRaw(c.codec.Encode(msg))
}

func (c *Client) writeRaw(b []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(b); err != nil {
		return wrapError(KindUnexpectedClosed, "write failed", err)
	}
	return nil
}

// Close sends COM_QUIT and tears the connection down without waiting for
// a reply (the server never sends one, spec §4.6). Every exchange still
// queued observes expectedClosedError.
func (c *Client) Close() error {
	if !c.lifecycle.BeginClosing(nil) {
		return nil
	}
	c.codec.BeginExchange(ExchangeKindGeneric)
	_ = c.writeMessage(ExitMessage())
	c.queue.DisposeAll(expectedClosedError())
	err := c.conn.Close()
	c.lifecycle.MarkClosed()
	c.cfg.Logger.Print("mysqlcore: closed gracefully")
	return err
}

// ForceClose tears the connection down immediately without sending
// COM_QUIT, for callers that cannot wait on a possibly wedged server.
func (c *Client) ForceClose() error {
	if !c.lifecycle.BeginClosing(nil) {
		return nil
	}
	c.queue.DisposeAll(expectedClosedError())
	err := c.conn.Close()
	c.lifecycle.MarkClosed()
	c.cfg.Logger.Print("mysqlcore: force-closed")
	return err
}

// IsConnected reports whether the client is still in PhaseCommand and
// able to accept new exchanges.
func (c *Client) IsConnected() bool { return c.lifecycle.Current() == PhaseCommand }

// Phase returns the connection's current lifecycle phase.
func (c *Client) Phase() Phase { return c.lifecycle.Current() }

// ConnectionID returns the server-assigned connection id from the
// handshake greeting, mainly useful for KILL and for correlating logs.
func (c *Client) ConnectionID() uint32 { return c.ctx.ConnectionID }

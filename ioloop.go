package mysqlcore

// readLoop bridges the socket into the envelope slicer and duplex codec,
// dispatching every decoded ServerMessage to the active exchange.
// Adapted from connection_go18.go's readLoop: the same non-blocking,
// dedicated-goroutine shape, generalized from "one reader waiting for one
// query's reply" to "one reader feeding whichever exchange is active."
func (c *Client) readLoop() {
	buf := make([]byte, 32*1024)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			msgs, decodeErr := c.codec.Feed(buf[:n])
			for _, m := range msgs {
				c.queue.Dispatch(m)
			}
			if decodeErr != nil {
				c.teardown(decodeErr)
				return
			}
		}
		if err != nil {
			c.teardown(c.classifyReadError(err))
			return
		}
	}
}

func (c *Client) classifyReadError(err error) error {
	if c.lifecycle.Current() == PhaseDisconnecting || c.lifecycle.Closed() {
		return nil // expected: Close()/ForceClose() already initiated this
	}
	return unexpectedClosedError(err)
}

// teardown runs exactly once per connection: it marks the lifecycle
// closing (a no-op if Close/ForceClose already did), drains every queued
// exchange with the same terminal error, and releases the socket.
func (c *Client) teardown(err error) {
	if !c.lifecycle.BeginClosing(err) {
		return
	}
	drainErr := err
	if drainErr == nil {
		drainErr = expectedClosedError()
	}
	c.queue.DisposeAll(drainErr)
	c.conn.Close()
	c.lifecycle.MarkClosed()
	c.cfg.Logger.Print("mysqlcore: connection torn down: cause=", err)
}

package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel carries one JSON-RPC message per WebSocket text frame.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// serveWS runs a push-enabled JSON-RPC server for one WebSocket client
// until it disconnects.
func (rs *RPCServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{OriginPatterns: rs.origins})
	if err != nil {
		rs.log.Warning("rpc: websocket accept: %v", err)
		return
	}
	conn.SetReadLimit(maxRequestSize)

	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(&wsChannel{conn: conn, ctx: r.Context()})
	rs.notifier.Register(srv)
	defer rs.notifier.Unregister(srv)
	rs.log.Debug("rpc: websocket client %s connected", r.RemoteAddr)
	if err := srv.Wait(); err != nil {
		rs.log.Debug("rpc: websocket client %s: %v", r.RemoteAddr, err)
	}
}

package server

import (
	"context"
	"sync"

	"github.com/craigmiskell/cookiemaster/internal/activity"
	"github.com/craigmiskell/cookiemaster/pkg/logger"
	"github.com/creachadair/jrpc2"
)

// MethodActivityRecorded is the notification pushed for every cookie
// decision recorded while clients are connected.
const MethodActivityRecorded = "activity.recorded"

// RPCNotifier tracks connected WebSocket servers and pushes notifications
// to all of them.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     logger.Logger
}

func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     l,
	}
}

func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Broadcast pushes a notification to every server. Servers that fail to
// take it are dropped.
func (n *RPCNotifier) Broadcast(ctx context.Context, method string, params any) {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	var failed []*jrpc2.Server
	for _, srv := range servers {
		if err := srv.Notify(ctx, method, params); err != nil {
			n.log.Debug("rpc: push %s failed: %v", method, err)
			failed = append(failed, srv)
		}
	}
	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
}

func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

// Record pushes e to connected clients. Push failures never fail the
// decision being recorded.
func (n *RPCNotifier) Record(ctx context.Context, e activity.Event) error {
	if n.Count() == 0 {
		return nil
	}
	n.Broadcast(context.WithoutCancel(ctx), MethodActivityRecorded, e)
	return nil
}

var _ activity.Recorder = (*RPCNotifier)(nil)

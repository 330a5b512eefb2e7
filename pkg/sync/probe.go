package sync

import (
	"context"
	"net"
	"time"
)

// ConnectivityChecker answers "can we reach the remote store's network right
// now". Tests substitute a fake.
type ConnectivityChecker interface {
	IsOnline(ctx context.Context) bool
}

// Probe is a cheap TCP reachability check against a stable external host.
// It deliberately does not hit the remote store API: the question is whether
// the network is up at all, and the answer is never cached, so callers should
// probe once per sync attempt, not per row.
type Probe struct {
	addr    string
	timeout time.Duration
}

func NewProbe(addr string, timeout time.Duration) *Probe {
	return &Probe{addr: addr, timeout: timeout}
}

// IsOnline treats any failure (timeout, DNS, refusal) as offline.
func (p *Probe) IsOnline(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// SPDX-License-Identifier: BSD-3-Clause

package eventbus

import (
	"fmt"
	"net"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// ConnProvider hands out in-process net.Conns to the embedded NATS server,
// blocking callers until the server is ready rather than requiring them to
// poll.
type ConnProvider struct {
	server *server.Server
}

// InProcessConn implements nats.InProcessConnProvider.
func (p *ConnProvider) InProcessConn() (net.Conn, error) {
	if p.server == nil {
		return nil, ErrConnectionNotAvailable
	}
	if !p.server.ReadyForConnections(time.Minute) {
		return nil, ErrServerTimeout
	}
	conn, err := p.server.InProcessConn()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInProcessConnFailed, err)
	}
	return conn, nil
}

package session

import (
	"fmt"

	"github.com/birchwood-mc/birchwood/server/net/packet"
)

// serveStatus answers the server-list ping sequence: every QueryRequest
// gets a QueryResponse until the first QueryPing, which is answered with a
// QueryPong, after which serveStatus returns and the caller closes the
// connection.
func (s *Session) serveStatus() error {
	for {
		p, err := s.readPacket()
		if err != nil {
			return fmt.Errorf("session: status: %w", err)
		}
		switch req := p.(type) {
		case *packet.QueryRequest:
			body, err := s.cfg.StatusJSON()
			if err != nil {
				return fmt.Errorf("session: status: build status: %w", err)
			}
			if err := s.send(&packet.QueryResponse{JSON: string(body)}); err != nil {
				return fmt.Errorf("session: status: %w", err)
			}
		case *packet.QueryPing:
			if err := s.send(&packet.QueryPong{Payload: req.Payload}); err != nil {
				return fmt.Errorf("session: status: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("session: status: unexpected packet %s", p.Name())
		}
	}
}

package session

import (
	"fmt"

	"github.com/birchwood-mc/birchwood/server/net/packet"
)

// handshake reads the single inbound Handshake packet and switches the
// Session's state to whichever of Status or Login it requested.
func (s *Session) handshake() error {
	p, err := s.readPacket()
	if err != nil {
		return fmt.Errorf("session: handshake: %w", err)
	}
	hs, ok := p.(*packet.Handshake)
	if !ok {
		return fmt.Errorf("session: handshake: unexpected packet %s", p.Name())
	}
	switch hs.Next {
	case packet.NextStateStatus:
		s.state = packet.StateStatus
	case packet.NextStateLogin:
		s.state = packet.StateLogin
	default:
		return fmt.Errorf("session: handshake: invalid next state %d", hs.Next)
	}
	return nil
}

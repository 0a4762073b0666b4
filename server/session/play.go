package session

import (
	"bytes"
	"context"
	"time"

	"github.com/birchwood-mc/birchwood/server/net/packet"
)

// playReadDeadline bounds how long the Play-state read loop waits for the
// next frame before treating the connection as dead; a keepalive system on
// the world engine's side re-arms client liveness independent of this.
const playReadDeadline = 30 * time.Second

// leaveDispatchTimeout bounds how long Serve waits to hand its final
// LeaveRequest to inbound before giving up, so a stuck ingest consumer
// can't leak a goroutine per disconnect forever.
const leaveDispatchTimeout = 5 * time.Second

// Serve runs the Play-state read and write pumps for a joined connection
// until either side errors, the connection closes, or ctx is cancelled. It
// always attempts to deliver a LeaveRequest for joined.Client before
// returning, so the ingest phase can retire the connection's rows even on
// an abrupt disconnect.
func (s *Session) Serve(ctx context.Context, joined *Joined, inbound chan<- Event) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writeErr := make(chan error, 1)
	go func() { writeErr <- s.writeLoop(ctx, joined.Outbound) }()

	readErr := s.readLoop(ctx, joined, inbound)
	cancel()

	select {
	case inbound <- Event{Leave: &LeaveRequest{Client: joined.Client}}:
	case <-time.After(leaveDispatchTimeout):
		s.log.Warn("timed out dispatching leave request", "name", joined.Name)
	}

	if readErr != nil {
		return readErr
	}
	return <-writeErr
}

func (s *Session) writeLoop(ctx context.Context, outbound <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-outbound:
			if !ok {
				return nil
			}
			var out bytes.Buffer
			if err := s.enc.AppendRaw(&out, data); err != nil {
				return err
			}
			if _, err := s.conn.Write(out.Bytes()); err != nil {
				return err
			}
		}
	}
}

func (s *Session) readLoop(ctx context.Context, joined *Joined, inbound chan<- Event) error {
	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(playReadDeadline)); err != nil {
			return err
		}
		p, err := s.readPacket()
		if err != nil {
			return err
		}
		ev, ok := translatePlayPacket(joined, p)
		if !ok {
			continue
		}
		select {
		case inbound <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// translatePlayPacket converts a decoded serverbound Play packet into the
// ingest event it produces, if any. Packets with no ingest-side effect
// (ClientSettings beyond what's tracked, unrecognised vendor extensions)
// are silently dropped here rather than forwarded.
func translatePlayPacket(joined *Joined, p packet.Decoder) (Event, bool) {
	switch p.(type) {
	case *packet.TeleportConfirm,
		*packet.ChatMessage,
		*packet.PlayerPosition,
		*packet.PlayerPositionAndRotation,
		*packet.PlayerRotation,
		*packet.PlayerMovement,
		*packet.KeepAliveResponse,
		*packet.PlayerInteract:
		return Event{Packet: &PacketEvent{Client: joined.Client, Entity: joined.Entity, Packet: p}}, true
	default:
		return Event{}, false
	}
}

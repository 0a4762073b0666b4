package session

import (
	"bytes"
	"fmt"
	"log/slog"
	"net"

	pnet "github.com/birchwood-mc/birchwood/server/net"
	"github.com/birchwood-mc/birchwood/server/net/packet"
)

// readChunkSize is how much is pulled off the socket per underlying Read
// call; the frame decoder reassembles complete Frames out of however many
// reads that takes.
const readChunkSize = 4096

// Session drives one TCP connection through the Handshake, Status/Login and
// Play states, translating the framed byte stream to and from typed
// packets. It is single-owner: Negotiate and Serve must run on one
// goroutine (the write side of Serve excepted, which owns only the
// connection's write half).
type Session struct {
	conn net.Conn
	log  *slog.Logger
	cfg  *Config

	registry *packet.Registry

	dec *pnet.Decoder
	enc *pnet.Encoder

	state packet.State

	encodeScratch bytes.Buffer
}

// New wraps conn in a Session ready to negotiate the Handshake state.
func New(conn net.Conn, cfg *Config, registry *packet.Registry, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		conn:     conn,
		log:      log,
		cfg:      cfg,
		registry: registry,
		dec:      pnet.NewDecoder(),
		enc:      pnet.NewEncoder(),
		state:    packet.StateHandshake,
	}
}

// RemoteAddr returns the underlying connection's remote address.
func (s *Session) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

// readFrame blocks until one complete Frame is available, reading more off
// the socket as needed.
func (s *Session) readFrame() (*pnet.Frame, error) {
	for {
		f, err := s.dec.TryNextFrame()
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
		buf := make([]byte, readChunkSize)
		n, err := s.conn.Read(buf)
		if n > 0 {
			s.dec.Feed(buf[:n])
		}
		if err != nil {
			return nil, err
		}
	}
}

// readPacket reads the next frame and decodes it against the current
// state's serverbound table.
func (s *Session) readPacket() (packet.Decoder, error) {
	f, err := s.readFrame()
	if err != nil {
		return nil, err
	}
	table := s.registry.Table(s.state, packet.Serverbound)
	if table == nil {
		return nil, fmt.Errorf("session: state %s has no serverbound packets", s.state)
	}
	p, ok := table.New(f.ID)
	if !ok {
		return nil, fmt.Errorf("session: unknown packet 0x%02x in state %s", f.ID, s.state)
	}
	if err := p.DecodeBody(bytes.NewReader(f.Body)); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", p.Name(), err)
	}
	return p, nil
}

// send encodes and writes p to the connection immediately, framing it
// through the current encoder state (compression/encryption included).
func (s *Session) send(p packet.Encoder) error {
	s.encodeScratch.Reset()
	if err := packet.EncodeTo(&s.encodeScratch, p); err != nil {
		return err
	}
	var out bytes.Buffer
	if err := s.enc.AppendRaw(&out, s.encodeScratch.Bytes()); err != nil {
		return err
	}
	_, err := s.conn.Write(out.Bytes())
	return err
}

// remoteHost extracts the bare host portion of addr for the Mojang
// session-server "ip" hint, returning "" if addr isn't a host:port pair.
func remoteHost(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return ""
	}
	return host
}

func disconnectReason(msg string) string {
	return `{"text":"` + jsonEscape(msg) + `"}`
}

func jsonEscape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		case '\n':
			buf.WriteString(`\n`)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

package session

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/world"
)

// verifyTokenSize matches the vanilla client's expectation for the
// EncryptionRequest/EncryptionResponse round trip.
const verifyTokenSize = 4

// Joined is what a Session has to show for a completed Login state: the
// player's identity and the rows the ingest phase created for it.
type Joined struct {
	Name string
	UUID uuid.UUID

	Client world.Key
	Entity world.Key

	Outbound <-chan []byte
}

// Negotiate drives the connection through Handshake and then either Status
// (answered here, returning a nil Joined once the QueryPong is sent) or
// Login (culminating in a join request sent to inbound). The caller owns
// calling Serve with the result afterwards.
func (s *Session) Negotiate(ctx context.Context, inbound chan<- Event) (*Joined, error) {
	if s.cfg.LoginTimeout > 0 {
		if err := s.conn.SetDeadline(time.Now().Add(s.cfg.LoginTimeout)); err != nil {
			return nil, err
		}
		defer s.conn.SetDeadline(time.Time{})
	}

	if err := s.handshake(); err != nil {
		return nil, err
	}

	switch s.state {
	case packet.StateStatus:
		return nil, s.serveStatus()
	case packet.StateLogin:
		return s.login(ctx, inbound)
	default:
		return nil, fmt.Errorf("session: unexpected state %s after handshake", s.state)
	}
}

func (s *Session) login(ctx context.Context, inbound chan<- Event) (*Joined, error) {
	p, err := s.readPacket()
	if err != nil {
		return nil, fmt.Errorf("session: login: %w", err)
	}
	hello, ok := p.(*packet.LoginHello)
	if !ok {
		return nil, fmt.Errorf("session: login: unexpected packet %s", p.Name())
	}
	name := hello.Name

	id, err := s.authenticate(ctx, name)
	if err != nil {
		return nil, err
	}

	if allower := s.cfg.Allower; allower != nil {
		if reason, ok := allower.Allow(s.RemoteAddr(), name, id); !ok {
			_ = s.send(&packet.LoginDisconnect{Reason: disconnectReason(reason)})
			return nil, fmt.Errorf("session: login: %s rejected: %s", name, reason)
		}
	}

	if s.cfg.CompressionThreshold >= 0 {
		if err := s.send(&packet.SetCompression{Threshold: s.cfg.CompressionThreshold}); err != nil {
			return nil, fmt.Errorf("session: login: %w", err)
		}
		s.enc.EnableCompression(s.cfg.CompressionThreshold)
		s.dec.EnableCompression(s.cfg.CompressionThreshold)
	}

	if err := s.send(&packet.LoginSuccess{UUID: id, Name: name}); err != nil {
		return nil, fmt.Errorf("session: login: %w", err)
	}
	s.state = packet.StatePlay

	respond := make(chan JoinResult, 1)
	select {
	case inbound <- Event{Join: &JoinRequest{Name: name, UUID: id, Respond: respond}}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var result JoinResult
	select {
	case result = <-respond:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if result.Err != nil {
		_ = s.send(&packet.Disconnect{Reason: disconnectReason(result.Err.Error())})
		return nil, fmt.Errorf("session: login: join rejected: %w", result.Err)
	}

	return &Joined{
		Name:     name,
		UUID:     id,
		Client:   result.Client,
		Entity:   result.Entity,
		Outbound: result.Outbound,
	}, nil
}

// authenticate runs the encryption handshake (unless AuthDisabled) and
// returns the player's canonical account UUID.
func (s *Session) authenticate(ctx context.Context, name string) (uuid.UUID, error) {
	if s.cfg.AuthDisabled || s.cfg.KeyPair == nil {
		return NoAuthenticator{}.Authenticate(ctx, name, "", "")
	}

	verifyToken := make([]byte, verifyTokenSize)
	if _, err := rand.Read(verifyToken); err != nil {
		return uuid.UUID{}, fmt.Errorf("session: login: generate verify token: %w", err)
	}

	// Vanilla has sent an empty server id here since the 1.7 protocol
	// rewrite; it exists only for the legacy hasJoined hash format.
	const serverID = ""
	if err := s.send(&packet.EncryptionRequest{
		ServerID:    serverID,
		PublicKey:   s.cfg.KeyPair.PublicKeyDER(),
		VerifyToken: verifyToken,
	}); err != nil {
		return uuid.UUID{}, fmt.Errorf("session: login: %w", err)
	}

	p, err := s.readPacket()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("session: login: %w", err)
	}
	resp, ok := p.(*packet.EncryptionResponse)
	if !ok {
		return uuid.UUID{}, fmt.Errorf("session: login: unexpected packet %s", p.Name())
	}

	gotToken, err := s.cfg.KeyPair.Decrypt(resp.VerifyToken)
	if err != nil || !bytes.Equal(gotToken, verifyToken) {
		return uuid.UUID{}, fmt.Errorf("session: login: verify token mismatch")
	}
	sharedSecret, err := s.cfg.KeyPair.Decrypt(resp.SharedSecret)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("session: login: decrypt shared secret: %w", err)
	}

	if err := s.dec.EnableDecryption(sharedSecret); err != nil {
		return uuid.UUID{}, fmt.Errorf("session: login: %w", err)
	}
	if err := s.enc.EnableEncryption(sharedSecret); err != nil {
		return uuid.UUID{}, fmt.Errorf("session: login: %w", err)
	}

	hash := serverIDHash(serverID, sharedSecret, s.cfg.KeyPair.PublicKeyDER())
	auth := s.cfg.Authenticator
	if auth == nil {
		auth = MojangAuthenticator{}
	}
	id, err := auth.Authenticate(ctx, name, hash, remoteHost(s.RemoteAddr()))
	if err != nil {
		_ = s.send(&packet.LoginDisconnect{Reason: disconnectReason("Failed to verify username.")})
		return uuid.UUID{}, fmt.Errorf("session: login: authenticate %s: %w", name, err)
	}
	return id, nil
}

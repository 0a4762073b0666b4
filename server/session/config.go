package session

import "time"

// Config carries the per-server settings a Session needs to drive a
// connection through Handshake and then Status or Login. One Config is
// shared read-only by every Session the listener accepts.
type Config struct {
	// CompressionThreshold arms SetCompression once Login succeeds; a
	// negative value leaves compression disabled for the connection's
	// lifetime.
	CompressionThreshold int32

	// AuthDisabled skips the encryption/Mojang-session exchange entirely
	// and derives an offline UUID from the player's name instead.
	AuthDisabled bool

	KeyPair       *KeyPair
	Authenticator Authenticator
	Allower       Allower

	// StatusJSON returns the server-list status document to answer a
	// QueryRequest with.
	StatusJSON func() ([]byte, error)

	// LoginTimeout bounds how long a connection may take to get through
	// Handshake/Status/Login before it is dropped. Zero disables the
	// deadline.
	LoginTimeout time.Duration
}

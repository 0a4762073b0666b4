package session

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// rsaKeyBits matches the vanilla server's own Login-state key size; the
// handshake's security rests on the AES shared secret it wraps, not on
// exceeding that historical choice.
const rsaKeyBits = 1024

// KeyPair is the server's RSA key pair used for the Login-state encryption
// handshake. One KeyPair is generated at server startup and shared by every
// Session.
type KeyPair struct {
	private *rsa.PrivateKey
	public  []byte
}

// NewKeyPair generates a fresh RSA key pair and pre-encodes its public half
// in the ASN.1 DER form EncryptionRequest carries over the wire.
func NewKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal rsa public key: %w", err)
	}
	return &KeyPair{private: priv, public: pub}, nil
}

// PublicKeyDER returns the DER-encoded public key for EncryptionRequest.
func (k *KeyPair) PublicKeyDER() []byte { return k.public }

// Decrypt recovers plaintext RSA-wrapped bytes (the shared secret or verify
// token) from EncryptionResponse using PKCS#1 v1.5, the padding scheme the
// vanilla protocol requires here.
func (k *KeyPair) Decrypt(ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rand.Reader, k.private, ciphertext)
}

// Authenticator verifies that a player who completed the Login-state
// encryption handshake actually owns the account they claim. It returns the
// account's canonical UUID.
type Authenticator interface {
	Authenticate(ctx context.Context, name, serverIDHash, clientAddr string) (uuid.UUID, error)
}

// NoAuthenticator skips the session-server round trip entirely and derives
// a deterministic offline UUID from the player's name, for AuthDisabled
// configurations. The derivation matches vanilla offline-mode servers:
// an MD5 (v3) UUID over "OfflinePlayer:"+name.
type NoAuthenticator struct{}

func (NoAuthenticator) Authenticate(_ context.Context, name, _, _ string) (uuid.UUID, error) {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = sum[6]&0x0f | 0x30 // version 3
	sum[8] = sum[8]&0x3f | 0x80 // RFC 4122 variant
	return uuid.UUID(sum), nil
}

// MojangAuthenticator verifies a session against Mojang's session server.
// There is no third-party client for this one-off REST call anywhere in
// the example corpus, so it is built directly on net/http and
// encoding/json; see DESIGN.md.
type MojangAuthenticator struct {
	Client *http.Client
}

type hasJoinedResponse struct {
	ID string `json:"id"`
}

func (m MojangAuthenticator) Authenticate(ctx context.Context, name, serverIDHash, clientAddr string) (uuid.UUID, error) {
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	q := url.Values{}
	q.Set("username", name)
	q.Set("serverId", serverIDHash)
	if clientAddr != "" {
		q.Set("ip", clientAddr)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://sessionserver.mojang.com/session/minecraft/hasJoined?"+q.Encode(), nil)
	if err != nil {
		return uuid.UUID{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("session server request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return uuid.UUID{}, fmt.Errorf("session server: %q failed Mojang authentication", name)
	}
	var parsed hasJoinedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return uuid.UUID{}, fmt.Errorf("decode session server response: %w", err)
	}
	if id, err := uuid.Parse(parsed.ID); err == nil {
		return id, nil
	}
	// Mojang's hasJoined response carries the id without dashes.
	return parseUndashedUUID(parsed.ID)
}

func parseUndashedUUID(s string) (uuid.UUID, error) {
	if len(s) != 32 {
		return uuid.UUID{}, fmt.Errorf("invalid undashed uuid %q", s)
	}
	return uuid.Parse(s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32])
}

// serverIDHash implements the Notchian "two's complement hex" digest a
// client and server both compute independently to prove a given shared
// secret to the Mojang session server, without ever sending the secret
// itself.
func serverIDHash(serverID string, sharedSecret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(sharedSecret)
	h.Write(publicKey)
	return twosComplementHex(h.Sum(nil))
}

func twosComplementHex(digest []byte) string {
	negative := len(digest) > 0 && digest[0]&0x80 != 0
	if negative {
		digest = twosComplement(digest)
	}
	hex := new(big.Int).SetBytes(digest).Text(16)
	if negative {
		return "-" + hex
	}
	return hex
}

func twosComplement(b []byte) []byte {
	out := make([]byte, len(b))
	carry := true
	for i := len(b) - 1; i >= 0; i-- {
		out[i] = ^b[i]
		if carry {
			out[i]++
			carry = out[i] == 0
		}
	}
	return out
}

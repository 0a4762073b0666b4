package session

import (
	"net"

	"github.com/google/uuid"
)

// Allower decides whether a player who has already passed the encryption
// and Mojang-session checks may actually join, e.g. an operator whitelist
// or ban list. A non-empty reason is shown to the client as the
// LoginDisconnect message when ok is false.
type Allower interface {
	Allow(addr net.Addr, name string, id uuid.UUID) (string, bool)
}

// OpenAllower allows every connection. It is the default when a server has
// no allow-list policy configured.
type OpenAllower struct{}

func (OpenAllower) Allow(net.Addr, string, uuid.UUID) (string, bool) { return "", true }

// Package packet defines the per-(state, direction) catalogue of typed
// protocol packets: a closed table mapping a VarInt id to a
// Go type that knows how to encode and decode itself, open for extension
// by registering additional variants at custom ids.
package packet

import (
	"fmt"
	"io"

	pnet "github.com/birchwood-mc/birchwood/server/net"
)

// State is one of the four connection states the FSM moves through.
type State uint8

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StatePlay
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateStatus:
		return "status"
	case StateLogin:
		return "login"
	case StatePlay:
		return "play"
	default:
		return "unknown"
	}
}

// Side is the direction a packet travels.
type Side uint8

const (
	Serverbound Side = iota
	Clientbound
)

func (s Side) String() string {
	if s == Clientbound {
		return "clientbound"
	}
	return "serverbound"
}

// Packet is implemented by every concrete packet type in the catalogue.
// ID and Name are fixed per type; EncodeBody and DecodeBody handle only the
// packet body: EncodeTo writes the id, and on the read side the id is
// peeled off the frame before Table dispatch.
type Packet interface {
	ID() int32
	Name() string
}

// Encoder is implemented by packets that can serialise their own body.
type Encoder interface {
	Packet
	EncodeBody(w io.Writer) error
}

// Decoder is implemented by packets that can populate themselves from a
// body reader. Decode receives a fresh zero value and fills it in place.
type Decoder interface {
	Packet
	DecodeBody(r io.Reader) error
}

// IdMismatchError reports that a frame's id did not match the packet type
// requested of it: decoding a frame with the wrong id for the requested
// type fails with IdMismatchError rather than silently misparsing.
type IdMismatchError struct {
	Want, Got int32
	State     State
	Side      Side
}

func (e *IdMismatchError) Error() string {
	return fmt.Sprintf("packet/%s/%s: id mismatch: want 0x%02x got 0x%02x", e.State, e.Side, e.Want, e.Got)
}

// factory builds a fresh zero-value Decoder for a registered id.
type factory func() Decoder

// Table is the closed id→type map for one (State, Side) pair. Tables start
// out populated with the vanilla packet set for their pair but remain open
// for extension: callers may Register additional ids (custom or vendor
// packets) without modifying the catalogue itself.
type Table struct {
	state State
	side  Side
	byID  map[int32]factory
}

func newTable(state State, side Side) *Table {
	return &Table{state: state, side: side, byID: make(map[int32]factory)}
}

// Register adds (or replaces) the factory for id in t. It is safe to call
// at program init time only; Table itself is not safe for concurrent
// mutation once packets are being dispatched through it.
func (t *Table) Register(id int32, new func() Decoder) {
	t.byID[id] = new
}

// New returns a fresh zero-value packet for id, or (nil, false) if id is
// not registered in this table.
func (t *Table) New(id int32) (Decoder, bool) {
	f, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Decode reads one packet's body out of r, given the id already peeled off
// the frame by the wire codec, and confirms it matches the Decoder handed
// in via want (when want is non-nil, its own ID() must equal id).
func (t *Table) Decode(id int32, body io.Reader, want Decoder) error {
	if want != nil && want.ID() != id {
		return &IdMismatchError{Want: want.ID(), Got: id, State: t.state, Side: t.side}
	}
	target := want
	if target == nil {
		p, ok := t.New(id)
		if !ok {
			return pnet.Wrap(pnet.ErrMalformed, fmt.Sprintf("packet/%s/%s/id=0x%02x", t.state, t.side, id))
		}
		target = p
	}
	return target.DecodeBody(body)
}

// EncodeTo writes p's id followed by its body to w, the inverse of Decode.
func EncodeTo(w io.Writer, p Encoder) error {
	if err := pnet.WriteVarInt(byteWriterOf(w), p.ID()); err != nil {
		return err
	}
	return p.EncodeBody(w)
}

// Registry holds the seven (state, direction) tables that make up the full
// catalogue (Handshake has no clientbound table), each populated with the
// vanilla packet set when the Registry is built.
type Registry struct {
	tables map[[2]uint8]*Table
}

// NewRegistry builds a Registry with all seven vanilla tables populated.
func NewRegistry() *Registry {
	r := &Registry{tables: make(map[[2]uint8]*Table)}
	r.tables[key(StateHandshake, Serverbound)] = handshakeServerboundTable()
	r.tables[key(StateStatus, Serverbound)] = statusServerboundTable()
	r.tables[key(StateStatus, Clientbound)] = statusClientboundTable()
	r.tables[key(StateLogin, Serverbound)] = loginServerboundTable()
	r.tables[key(StateLogin, Clientbound)] = loginClientboundTable()
	r.tables[key(StatePlay, Serverbound)] = playServerboundTable()
	r.tables[key(StatePlay, Clientbound)] = playClientboundTable()
	return r
}

func key(state State, side Side) [2]uint8 { return [2]uint8{uint8(state), uint8(side)} }

// Table returns the table for (state, side), or nil if that pair carries no
// packets (e.g. Handshake has no clientbound direction).
func (r *Registry) Table(state State, side Side) *Table {
	return r.tables[key(state, side)]
}

package packet

import (
	"io"

	pnet "github.com/birchwood-mc/birchwood/server/net"
)

// QueryRequest asks for the server-list status JSON.
type QueryRequest struct{}

func (QueryRequest) ID() int32            { return 0x00 }
func (QueryRequest) Name() string         { return "query_request" }
func (*QueryRequest) DecodeBody(io.Reader) error { return nil }
func (*QueryRequest) EncodeBody(io.Writer) error { return nil }

// QueryResponse carries the server-list status JSON document.
type QueryResponse struct {
	JSON string
}

func (QueryResponse) ID() int32    { return 0x00 }
func (QueryResponse) Name() string { return "query_response" }

func (p *QueryResponse) EncodeBody(w io.Writer) error {
	return pnet.WriteString(w, p.JSON)
}

func (p *QueryResponse) DecodeBody(r io.Reader) error {
	s, err := pnet.ReadString(r)
	if err != nil {
		return pnet.Wrap(err, "query_response/json")
	}
	p.JSON = s
	return nil
}

// QueryPing carries an opaque payload the server must echo back unchanged.
type QueryPing struct {
	Payload int64
}

func (QueryPing) ID() int32    { return 0x01 }
func (QueryPing) Name() string { return "query_ping" }

func (p *QueryPing) EncodeBody(w io.Writer) error { return pnet.WriteInt64(w, p.Payload) }
func (p *QueryPing) DecodeBody(r io.Reader) error {
	v, err := pnet.ReadInt64(r)
	if err != nil {
		return pnet.Wrap(err, "query_ping/payload")
	}
	p.Payload = v
	return nil
}

// QueryPong is QueryPing's payload echoed back; after sending it the
// connection closes.
type QueryPong struct {
	Payload int64
}

func (QueryPong) ID() int32    { return 0x01 }
func (QueryPong) Name() string { return "query_pong" }

func (p *QueryPong) EncodeBody(w io.Writer) error { return pnet.WriteInt64(w, p.Payload) }
func (p *QueryPong) DecodeBody(r io.Reader) error {
	v, err := pnet.ReadInt64(r)
	if err != nil {
		return pnet.Wrap(err, "query_pong/payload")
	}
	p.Payload = v
	return nil
}

func statusServerboundTable() *Table {
	t := newTable(StateStatus, Serverbound)
	t.Register(0x00, func() Decoder { return &QueryRequest{} })
	t.Register(0x01, func() Decoder { return &QueryPing{} })
	return t
}

func statusClientboundTable() *Table {
	t := newTable(StateStatus, Clientbound)
	t.Register(0x00, func() Decoder { return &QueryResponse{} })
	t.Register(0x01, func() Decoder { return &QueryPong{} })
	return t
}

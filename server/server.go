package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/session"
	"github.com/birchwood-mc/birchwood/server/synth"
	"github.com/birchwood-mc/birchwood/server/world"
)

// Server ties the wire codec, packet catalogue, session FSM and world
// engine together: it accepts connections, negotiates them through
// Handshake/Status/Login and hands Play-state traffic to the engine's
// ingest phase.
type Server struct {
	conf     Config
	log      *slog.Logger
	registry *packet.Registry
	keys     *session.KeyPair

	engine *world.Engine
	store  *world.Store

	defaultLayer world.Key
	playerList   world.Key

	inbound chan session.Event

	mu       sync.Mutex
	listener net.Listener
	closing  chan struct{}
}

func newServer(conf Config, keys *session.KeyPair) *Server {
	store := world.NewStore(conf.Log)
	engine := world.NewEngine(world.EngineConfig{Log: conf.Log, Store: store, TickRate: conf.TickRate})

	layerKey, layer := store.Layers.InsertWith(func(k world.Key) world.ChunkLayer {
		return world.ChunkLayer{Key: k, Name: "overworld"}
	})
	_ = layer
	listKey, _ := store.PlayerLists.InsertWith(func(k world.Key) world.PlayerList {
		pl := *world.NewPlayerList()
		pl.Key = k
		return pl
	})

	s := &Server{
		conf:         conf,
		log:          conf.Log,
		registry:     packet.NewRegistry(),
		keys:         keys,
		engine:       engine,
		store:        store,
		defaultLayer: layerKey,
		playerList:   listKey,
		inbound:      make(chan session.Event, 256),
		closing:      make(chan struct{}),
	}

	engine.RegisterSystem(world.PhaseIngest, world.System{
		Name:   "ingest",
		Access: world.Access{Writes: []world.RowKind{world.RowClient, world.RowEntity, world.RowPlayerList, world.RowChunkLayer}},
		Run:    s.runIngest,
	})
	engine.RegisterSystem(world.PhaseFlush, world.System{
		Name:   "flush",
		Access: world.Access{Reads: []world.RowKind{world.RowClient, world.RowChunkLayer}},
		Run:    s.runFlush,
	})
	engine.RegisterSystem(world.PhasePostUpdate, world.System{
		Name:   "keepalive",
		Access: world.Access{Reads: []world.RowKind{world.RowClient}},
		Run:    s.runKeepalive,
	})
	return s
}

// Listen opens the server's listener and starts the accept loop on its own
// goroutine.
func (s *Server) Listen() error {
	l, err := net.Listen("tcp", s.conf.Address)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
	s.log.Info("listening", "address", s.conf.Address)
	go s.acceptLoop()
	return nil
}

// Run starts the world engine's tick loop and blocks until ctx is
// cancelled, then closes the server. Listen must have been called first;
// each accepted connection is already served on its own goroutine by the
// accept loop, independent of Run.
func (s *Server) Run(ctx context.Context) {
	go s.engine.Run(ctx)
	<-ctx.Done()
	s.Close()
}

// Close stops accepting new connections and shuts down the world engine.
func (s *Server) Close() error {
	s.mu.Lock()
	select {
	case <-s.closing:
	default:
		close(s.closing)
	}
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		_ = l.Close()
	}
	s.engine.Stop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closing:
				return
			default:
				s.log.Error("accept", "err", err)
				continue
			}
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	cfg := &session.Config{
		CompressionThreshold: s.conf.CompressionThreshold,
		AuthDisabled:         s.conf.AuthDisabled,
		KeyPair:              s.keys,
		Allower:              s.conf.Allower,
		StatusJSON:           s.statusJSON,
		LoginTimeout:         s.conf.LoginTimeout,
	}
	sess := session.New(conn, cfg, s.registry, s.log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	joined, err := sess.Negotiate(ctx, s.inbound)
	if err != nil {
		s.log.Debug("negotiate failed", "remote", conn.RemoteAddr(), "err", err)
		return
	}
	if joined == nil {
		// Status exchange completed; the deferred Close ends the
		// connection.
		return
	}

	s.log.Info("player joined", "name", joined.Name, "uuid", joined.UUID)
	if err := sess.Serve(ctx, joined, s.inbound); err != nil {
		s.log.Debug("serve ended", "name", joined.Name, "err", err)
	}
	s.log.Info("player left", "name", joined.Name)
}

func (s *Server) statusJSON() ([]byte, error) {
	doc := struct {
		Version struct {
			Name     string `json:"name"`
			Protocol int    `json:"protocol"`
		} `json:"version"`
		Players struct {
			Max    int32 `json:"max"`
			Online int    `json:"online"`
		} `json:"players"`
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
	}{}
	doc.Version.Name = "1.19.4"
	doc.Version.Protocol = 762
	doc.Players.Max = s.conf.MaxPlayers
	doc.Players.Online = s.store.Clients.Len()
	doc.Description.Text = s.conf.MOTD
	return json.Marshal(doc)
}

// runIngest drains pending session events once per tick, the only place
// connection goroutines' requests turn into Store mutations.
func (s *Server) runIngest(_ context.Context, store *world.Store, _ uint64) error {
	for {
		select {
		case ev := <-s.inbound:
			s.applyEvent(store, ev)
		default:
			return nil
		}
	}
}

func (s *Server) applyEvent(store *world.Store, ev session.Event) {
	switch {
	case ev.Join != nil:
		s.applyJoin(store, ev.Join)
	case ev.Leave != nil:
		s.applyLeave(store, ev.Leave)
	case ev.Packet != nil:
		s.applyPacket(store, ev.Packet)
	}
}

func (s *Server) applyJoin(store *world.Store, req *session.JoinRequest) {
	var id [16]byte = req.UUID
	clientKey, client := store.Clients.InsertWith(func(k world.Key) world.Client {
		c := *world.NewClient(req.Name, id)
		c.Key = k
		c.Layer = s.defaultLayer
		return c
	})
	entityKey, entity := store.Entities.InsertWith(func(k world.Key) world.Entity {
		e := world.NewEntity("minecraft:player")
		e.Key = k
		e.Layer = s.defaultLayer
		e.AddedThisTick = true
		return e
	})
	client.EntityKey = entityKey

	if layer, ok := store.Layers.Get(s.defaultLayer); ok {
		layer.AddViewer(clientKey)
	}

	entry := world.PlayerListEntry{UUID: id, Name: req.Name, GameMode: client.GameMode}
	if list, ok := store.PlayerLists.Get(s.playerList); ok {
		list.Entries[id] = entry
	}

	if list, ok := store.PlayerLists.Get(s.playerList); ok {
		synth.SynthesizeJoin(store, client, entity, list, synth.JoinConfig{
			DimensionType: s.conf.DimensionType,
			DimensionName: s.conf.DimensionName,
			RegistryCodec: s.conf.RegistryCodec,
			HashedSeed:    s.conf.HashedSeed,
			MaxPlayers:    s.conf.MaxPlayers,
			ViewDistance:  s.conf.ViewDistance,
			SimDistance:   s.conf.SimDistance,
		}, s.emptyChunkSource)
	}

	select {
	case req.Respond <- session.JoinResult{Client: clientKey, Entity: entityKey, Outbound: client.Outbound()}:
	default:
	}
}

// emptyChunkSource stands in until a terrain/storage collaborator supplies
// real chunk data; it reports every position as unloaded rather than
// blocking a join.
func (s *Server) emptyChunkSource([2]int32) (*packet.ChunkDataAndUpdateLight, *packet.ChunkBiomeData) {
	return nil, nil
}

func (s *Server) applyLeave(store *world.Store, req *session.LeaveRequest) {
	client, ok := store.Clients.Get(req.Client)
	if !ok {
		return
	}
	if layer, ok := store.Layers.Get(client.Layer); ok {
		layer.RemoveViewer(req.Client)
	}
	if list, ok := store.PlayerLists.Get(s.playerList); ok {
		delete(list.Entries, client.UUID)
	}
	store.Entities.Remove(client.EntityKey)
	store.Clients.Remove(req.Client)
}

func (s *Server) applyPacket(store *world.Store, ev *session.PacketEvent) {
	entity, ok := store.Entities.Get(ev.Entity)
	if !ok {
		return
	}
	switch p := ev.Packet.(type) {
	case *packet.PlayerPosition:
		entity.SetPosition(mgl64.Vec3{p.X, p.Y, p.Z})
	case *packet.PlayerPositionAndRotation:
		entity.SetPosition(mgl64.Vec3{p.X, p.Y, p.Z})
		entity.SetLook(world.Look{Yaw: p.Yaw, Pitch: p.Pitch, HeadYaw: p.Yaw})
	case *packet.PlayerRotation:
		entity.SetLook(world.Look{Yaw: p.Yaw, Pitch: p.Pitch, HeadYaw: p.Yaw})
	}
}

// runFlush drains every chunk layer's message buffer to its viewers, the
// socket-facing half of outbound packet synthesis.
func (s *Server) runFlush(_ context.Context, store *world.Store, _ uint64) error {
	store.Layers.Each(func(_ world.Key, layer *world.ChunkLayer) {
		synth.FlushLayer(store, layer)
	})
	return nil
}

// keepaliveInterval matches vanilla's own keep-alive cadence closely enough
// that clients never time the connection out waiting for one.
const keepaliveInterval = 200 // ticks, i.e. 10s at 20 Hz

func (s *Server) runKeepalive(_ context.Context, store *world.Store, tick uint64) error {
	if tick%keepaliveInterval != 0 {
		return nil
	}
	store.Clients.Each(func(_ world.Key, c *world.Client) {
		c.Send(encodeKeepAlive(int64(tick)))
	})
	return nil
}

// encodeKeepAlive builds the wire form of a KeepAlive packet once per call,
// matching the unframed id+body shape Client.Send takes and
// Session.writeLoop frames.
func encodeKeepAlive(id int64) []byte {
	var buf bytes.Buffer
	if err := packet.EncodeTo(&buf, &packet.KeepAlive{ID64: id}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

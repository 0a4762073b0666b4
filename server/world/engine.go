package world

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Store bundles the versioned slabs that make up the ECS-style world state:
// Client, Entity, Chunk, ChunkLayer, Inventory, PlayerList and BossBar
// rows.
type Store struct {
	Clients     *Slab[Client]
	Entities    *Slab[Entity]
	Chunks      *Slab[Chunk]
	Layers      *Slab[ChunkLayer]
	Inventories *Slab[Inventory]
	PlayerLists *Slab[PlayerList]
	BossBars    *Slab[BossBar]
}

// NewStore allocates an empty Store, logging generation-wraparound warnings
// (if any) through log.
func NewStore(log *slog.Logger) *Store {
	return &Store{
		Clients:     NewSlab[Client](log),
		Entities:    NewSlab[Entity](log),
		Chunks:      NewSlab[Chunk](log),
		Layers:      NewSlab[ChunkLayer](log),
		Inventories: NewSlab[Inventory](log),
		PlayerLists: NewSlab[PlayerList](log),
		BossBars:    NewSlab[BossBar](log),
	}
}

// RowKind names one of the Store's row tables, used to declare a System's
// access set so the engine can tell which systems may run in parallel.
type RowKind uint8

const (
	RowClient RowKind = iota
	RowEntity
	RowChunk
	RowChunkLayer
	RowInventory
	RowPlayerList
	RowBossBar
)

// Access declares the row kinds a System reads and writes. Two systems may
// run concurrently only if neither writes a kind the other reads or writes.
type Access struct {
	Reads  []RowKind
	Writes []RowKind
}

func (a Access) conflictsWith(b Access) bool {
	for _, w := range a.Writes {
		for _, r := range b.Reads {
			if w == r {
				return true
			}
		}
		for _, r := range b.Writes {
			if w == r {
				return true
			}
		}
	}
	for _, w := range b.Writes {
		for _, r := range a.Reads {
			if w == r {
				return true
			}
		}
	}
	return false
}

// System is one unit of per-tick logic, dispatched by the Engine according
// to its declared Access and the phase it belongs to.
type System struct {
	Name   string
	Access Access
	Run    func(ctx context.Context, store *Store, tick uint64) error
}

// Phase is one ordered stage of a tick. Systems within a Phase run in
// disjoint-access parallel batches; Phases themselves always run in the
// fixed sequence Ingest → PreUpdate → Update → PostUpdate → Flush → End.
type Phase struct {
	Name    string
	Systems []System
}

// batches groups p's systems into sequential groups such that no two
// systems in the same group conflict, preserving registration order within
// each group. It is a greedy first-fit: each system joins the first group it
// does not conflict with, so the group count is not always the minimum.
func (p Phase) batches() [][]System {
	var groups [][]System
	var accesses [][]Access
	for _, sys := range p.Systems {
		placed := false
		for gi, group := range groups {
			conflict := false
			for _, other := range accesses[gi] {
				if sys.Access.conflictsWith(other) {
					conflict = true
					break
				}
			}
			if !conflict {
				groups[gi] = append(group, sys)
				accesses[gi] = append(accesses[gi], sys.Access)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []System{sys})
			accesses = append(accesses, []Access{sys.Access})
		}
	}
	return groups
}

// Engine drives the Store at a fixed tick rate through its ordered phases.
type Engine struct {
	log      *slog.Logger
	store    *Store
	interval time.Duration

	phases [6]Phase

	currentTick uint64

	closing chan struct{}
	done    chan struct{}
}

// Phase name constants, in tick order.
const (
	PhaseIngest     = "ingest"
	PhasePreUpdate  = "pre_update"
	PhaseUpdate     = "update"
	PhasePostUpdate = "post_update"
	PhaseFlush      = "flush"
	PhaseEnd        = "end"
)

// EngineConfig configures a new Engine. TickRate defaults to 20 Hz.
type EngineConfig struct {
	Log      *slog.Logger
	Store    *Store
	TickRate int
}

// NewEngine builds an Engine with all six phases empty; callers populate
// them via RegisterSystem before calling Run.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Store == nil {
		cfg.Store = NewStore(cfg.Log)
	}
	rate := cfg.TickRate
	if rate <= 0 {
		rate = 20
	}
	e := &Engine{
		log:      cfg.Log,
		store:    cfg.Store,
		interval: time.Second / time.Duration(rate),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	e.phases = [6]Phase{
		{Name: PhaseIngest},
		{Name: PhasePreUpdate},
		{Name: PhaseUpdate},
		{Name: PhasePostUpdate},
		{Name: PhaseFlush},
		{Name: PhaseEnd},
	}
	return e
}

// Store returns the Engine's backing Store.
func (e *Engine) Store() *Store { return e.store }

// CurrentTick returns the monotonic tick counter.
func (e *Engine) CurrentTick() uint64 { return e.currentTick }

// RegisterSystem appends sys to the named phase. The engine registers no
// systems of its own; the server's ingest, keepalive and flush systems are
// registered this way alongside user systems, so there is no separate
// registration path for "built-in" vs "user" systems.
func (e *Engine) RegisterSystem(phase string, sys System) {
	for i := range e.phases {
		if e.phases[i].Name == phase {
			e.phases[i].Systems = append(e.phases[i].Systems, sys)
			return
		}
	}
	panic("world: unknown engine phase " + phase)
}

// Run blocks, ticking the Engine at its configured rate until Stop is
// called. If a tick overruns its period, the next tick starts immediately
// with no catch-up.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.closing:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.runTick(ctx); err != nil {
				e.log.Error("tick failed", "tick", e.currentTick, "err", err)
			}
		}
	}
}

// Stop signals Run to return, lets a tick already in progress finish, then
// returns once Run has exited.
func (e *Engine) Stop() {
	close(e.closing)
	<-e.done
}

func (e *Engine) runTick(ctx context.Context) error {
	e.currentTick++
	for i := range e.phases {
		if err := e.runPhase(ctx, e.phases[i]); err != nil {
			return err
		}
	}
	e.endTick()
	return nil
}

func (e *Engine) runPhase(ctx context.Context, phase Phase) error {
	for _, batch := range phase.batches() {
		if len(batch) == 1 {
			if err := batch[0].Run(ctx, e.store, e.currentTick); err != nil {
				return err
			}
			continue
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, sys := range batch {
			sys := sys
			g.Go(func() error { return sys.Run(gctx, e.store, e.currentTick) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// endTick refreshes old-state snapshots and clears per-tick delta buffers
// across every row kind.
func (e *Engine) endTick() {
	e.store.Entities.Each(func(_ Key, row *Entity) { row.endTick() })
	e.store.Chunks.Each(func(_ Key, row *Chunk) { row.endTick() })
	e.store.Layers.Each(func(_ Key, row *ChunkLayer) { row.endTick() })
	e.store.Inventories.Each(func(_ Key, row *Inventory) { row.endTick() })
	e.store.BossBars.Each(func(_ Key, row *BossBar) { row.endTick() })
	e.store.Clients.Each(func(_ Key, row *Client) { row.endTick() })
}

package world

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestPhaseBatchesGroupsDisjointAccess(t *testing.T) {
	p := Phase{Systems: []System{
		{Name: "a", Access: Access{Reads: []RowKind{RowEntity}}},
		{Name: "b", Access: Access{Reads: []RowKind{RowChunk}}},
		{Name: "c", Access: Access{Writes: []RowKind{RowEntity}}},
	}}
	batches := p.batches()
	if len(batches) != 2 {
		t.Fatalf("want 2 batches, got %d", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Fatalf("want a and b in the first batch, got %d systems", len(batches[0]))
	}
}

func TestEngineRunTickInvokesAllPhasesInOrder(t *testing.T) {
	e := NewEngine(EngineConfig{})
	var order []string
	record := func(name string) System {
		return System{Name: name, Run: func(_ context.Context, _ *Store, _ uint64) error {
			order = append(order, name)
			return nil
		}}
	}
	e.RegisterSystem(PhaseIngest, record("ingest"))
	e.RegisterSystem(PhasePreUpdate, record("pre"))
	e.RegisterSystem(PhaseUpdate, record("update"))
	e.RegisterSystem(PhasePostUpdate, record("post"))
	e.RegisterSystem(PhaseFlush, record("flush"))
	e.RegisterSystem(PhaseEnd, record("end"))

	if err := e.runTick(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"ingest", "pre", "update", "post", "flush", "end"}
	if len(order) != len(want) {
		t.Fatalf("want %v got %v", want, order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("want %v got %v", want, order)
		}
	}
	if e.CurrentTick() != 1 {
		t.Fatalf("want tick 1, got %d", e.CurrentTick())
	}
}

func TestEngineEndTickClearsEntityDelta(t *testing.T) {
	store := NewStore(nil)
	e := NewEngine(EngineConfig{Store: store})
	key, row := store.Entities.Insert(Entity{})
	row.SetPosition(row.Position.Add(row.Position))
	row.ChangedThisTick = true

	e.endTick()

	got, _ := store.Entities.Get(key)
	if got.ChangedThisTick {
		t.Fatal("expected ChangedThisTick cleared after endTick")
	}
}

func TestEngineRunStopsOnContextCancel(t *testing.T) {
	e := NewEngine(EngineConfig{TickRate: 1000})
	ctx, cancel := context.WithCancel(context.Background())
	var ticks atomic.Int32
	e.RegisterSystem(PhaseEnd, System{Run: func(context.Context, *Store, uint64) error {
		ticks.Add(1)
		return nil
	}})
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
}

package synth

import (
	"testing"

	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

func TestMovementPacketChoosesTeleportPastThreshold(t *testing.T) {
	store := world.NewStore(nil)
	key, e := store.Entities.Insert(world.NewEntity("zombie"))
	e.Key = key
	e.SetPosition(mgl64.Vec3{20, 0, 0})

	p := MovementPacket(e)
	if _, ok := p.(*packet.EntityPosition); !ok {
		t.Fatalf("want EntityPosition, got %T", p)
	}
}

func TestMovementPacketChoosesMoveRelativeBelowThreshold(t *testing.T) {
	store := world.NewStore(nil)
	key, e := store.Entities.Insert(world.NewEntity("zombie"))
	e.Key = key
	e.SetPosition(mgl64.Vec3{1, 0, 0})

	p := MovementPacket(e)
	if _, ok := p.(*packet.MoveRelative); !ok {
		t.Fatalf("want MoveRelative, got %T", p)
	}
}

func TestMovementPacketNilWhenUnchanged(t *testing.T) {
	store := world.NewStore(nil)
	_, e := store.Entities.Insert(world.NewEntity("zombie"))
	if p := MovementPacket(e); p != nil {
		t.Fatalf("want nil, got %T", p)
	}
}

func TestFlushLayerDeliversViewConditionOnlyToViewers(t *testing.T) {
	store := world.NewStore(nil)
	inViewKey, _ := store.Clients.Insert(*world.NewClient("in-view", [16]byte{}))
	outOfViewKey, outOfView := store.Clients.Insert(*world.NewClient("out-of-view", [16]byte{}))
	// The second Insert may move the first row, so look it up again.
	inView, _ := store.Clients.Get(inViewKey)
	inView.Key, outOfView.Key = inViewKey, outOfViewKey
	inView.View.Positions = map[[2]int32]bool{{0, 0}: true}

	layerKey, layer := store.Layers.Insert(world.ChunkLayer{})
	layer.Key = layerKey
	layer.AddViewer(inViewKey)
	layer.AddViewer(outOfViewKey)

	layer.Broadcast(world.View([2]int32{0, 0}), []byte{0xAA})
	FlushLayer(store, layer)

	select {
	case <-inView.Outbound():
	default:
		t.Fatal("expected in-view client to receive the message")
	}
	select {
	case <-outOfView.Outbound():
		t.Fatal("expected out-of-view client to receive nothing")
	default:
	}
}

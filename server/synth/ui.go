package synth

import (
	"bytes"

	pnet "github.com/birchwood-mc/birchwood/server/net"
	"github.com/birchwood-mc/birchwood/server/net/packet"
	"github.com/birchwood-mc/birchwood/server/world"
)

// inventoryFullSyncThreshold is the dirty-slot count past which a full
// Inventory sync packet is cheaper on the wire than one
// ScreenHandlerSlotUpdate per slot.
const inventoryFullSyncThreshold = 4

func bossBarAddPayload(b *world.BossBar) []byte {
	var buf bytes.Buffer
	pnet.WriteString(&buf, b.Title)
	pnet.WriteFloat32(&buf, b.Health)
	pnet.WriteVarInt(&buf, int32(b.Color))
	pnet.WriteVarInt(&buf, int32(b.Style))
	pnet.WriteUint8(&buf, b.Flags)
	return buf.Bytes()
}

// BroadcastBossBar sends the Add/Remove/UpdateX actions bar's viewer and
// field changes require this tick, resolving Store to each viewer's Client
// row since boss bar subscribers aren't scoped to one ChunkLayer.
func BroadcastBossBar(store *world.Store, bar *world.BossBar) {
	deliver := func(key world.Key, action packet.BossBarAction, data []byte) {
		client, ok := store.Clients.Get(key)
		if !ok {
			return
		}
		client.Send(encode(&packet.BossBar{UUID: bar.UUID, Action: action, Data: data}))
	}

	for _, viewer := range bar.AddedViewers() {
		deliver(viewer, packet.BossBarAdd, bossBarAddPayload(bar))
	}
	for _, viewer := range bar.RemovedViewers() {
		deliver(viewer, packet.BossBarRemove, nil)
	}
	if !bar.FieldsChanged() {
		return
	}
	for viewer := range bar.Viewers {
		var healthBuf, titleBuf, styleBuf, flagsBuf bytes.Buffer
		pnet.WriteFloat32(&healthBuf, bar.Health)
		pnet.WriteString(&titleBuf, bar.Title)
		pnet.WriteVarInt(&styleBuf, int32(bar.Color))
		pnet.WriteVarInt(&styleBuf, int32(bar.Style))
		pnet.WriteUint8(&flagsBuf, bar.Flags)

		deliver(viewer, packet.BossBarUpdateHealth, healthBuf.Bytes())
		deliver(viewer, packet.BossBarUpdateTitle, titleBuf.Bytes())
		deliver(viewer, packet.BossBarUpdateStyle, styleBuf.Bytes())
		deliver(viewer, packet.BossBarUpdateFlags, flagsBuf.Bytes())
	}
}

func playerListEntryBytes(e world.PlayerListEntry) []byte {
	var buf bytes.Buffer
	buf.Write(e.UUID[:])
	pnet.WriteString(&buf, e.Name)
	pnet.WriteVarInt(&buf, int32(e.GameMode))
	pnet.WriteVarInt(&buf, e.Latency)
	pnet.WriteOptional(&buf, e.DisplayName, e.DisplayName != "", pnet.WriteString)
	return buf.Bytes()
}

// BroadcastPlayerListAdd sends a PlayerListAddPlayer action for entry to
// every connected client. No removal or field-update tab-list action is
// synthesized in this package.
func BroadcastPlayerListAdd(store *world.Store, entry world.PlayerListEntry) {
	body := playerListEntryBytes(entry)
	store.Clients.Each(func(_ world.Key, c *world.Client) {
		c.Send(encode(&packet.PlayerList{Action: packet.PlayerListAddPlayer, Entries: body}))
	})
}

// BroadcastInventory chooses between per-slot and full-window sync based on
// how many slots changed this tick, and sends it only to owner (the single
// client viewing its own inventory window).
func BroadcastInventory(owner *world.Client, inv *world.Inventory) {
	dirty := inv.DirtySlots()
	if len(dirty) == 0 {
		return
	}
	if len(dirty) > inventoryFullSyncThreshold {
		var slots bytes.Buffer
		pnet.WriteVarInt(&slots, int32(len(inv.Slots)))
		for _, slot := range inv.Slots {
			slots.Write(slot.Data)
		}
		owner.Send(encode(&packet.Inventory{WindowID: inv.WindowID, StateID: inv.StateID, Slots: slots.Bytes()}))
		return
	}
	for _, i := range dirty {
		owner.Send(encode(&packet.ScreenHandlerSlotUpdate{
			WindowID: inv.WindowID,
			StateID:  inv.StateID,
			Slot:     int16(i),
			Data:     inv.Slots[i].Data,
		}))
	}
}

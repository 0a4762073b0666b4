package world

import "github.com/go-gl/mathgl/mgl64"

// Look is an entity's body orientation.
type Look struct {
	Yaw, Pitch, HeadYaw float32
}

// Entity is one row of the world store's entity table. Position/look are
// wrapped with their previous-tick snapshot so outbound synthesis can diff
// them without a second pass over the slab.
type Entity struct {
	Key Key

	Kind string

	Position, oldPosition mgl64.Vec3
	Look, oldLook         Look
	oldLookSet            bool

	Velocity mgl64.Vec3

	Layer Key // the ChunkLayer this entity currently belongs to

	TrackedData      map[uint8][]byte
	ChangedTracked   map[uint8]bool
	StatusBits       uint64
	changedStatus    uint64
	AnimationBits    uint64
	changedAnimation uint64

	AddedThisTick   bool
	ChangedThisTick bool
}

// NewEntity returns an Entity row whose old-state snapshot already matches
// its initial state, so the first tick it's diffed doesn't read as a
// look/position change by virtue of having no prior snapshot yet.
func NewEntity(kind string) Entity {
	return Entity{Kind: kind, oldLookSet: true}
}

// SetPosition updates Position and marks the row changed, leaving
// oldPosition untouched until the engine's End phase snapshots it.
func (e *Entity) SetPosition(pos mgl64.Vec3) {
	if pos == e.Position {
		return
	}
	e.Position = pos
	e.ChangedThisTick = true
}

// SetLook updates Look and marks the row changed.
func (e *Entity) SetLook(look Look) {
	if look == e.Look {
		return
	}
	e.Look = look
	e.ChangedThisTick = true
}

// OldPosition returns the position snapshot taken at the start of this
// tick, used to detect a chunk-to-chunk transition.
func (e *Entity) OldPosition() mgl64.Vec3 { return e.oldPosition }

// PositionDelta returns Position - oldPosition, the vector outbound
// synthesis diffs against the |Δ|∞ ≥ 8.0 teleport threshold.
func (e *Entity) PositionDelta() mgl64.Vec3 {
	return e.Position.Sub(e.oldPosition)
}

// LookChanged reports whether look differs from the previous tick's snapshot.
func (e *Entity) LookChanged() bool {
	return !e.oldLookSet || e.Look != e.oldLook
}

// HeadYawChanged reports whether head yaw changed independent of the rest
// of look, since EntitySetHeadYaw is a separate packet from the
// body-yaw/pitch carried by movement packets.
func (e *Entity) HeadYawChanged() bool {
	return !e.oldLookSet || e.Look.HeadYaw != e.oldLook.HeadYaw
}

// SetTrackedData records a changed tracked-data entry, pre-encoded by the
// content-table collaborator.
func (e *Entity) SetTrackedData(index uint8, encoded []byte) {
	if e.TrackedData == nil {
		e.TrackedData = make(map[uint8][]byte)
	}
	if e.ChangedTracked == nil {
		e.ChangedTracked = make(map[uint8]bool)
	}
	e.TrackedData[index] = encoded
	e.ChangedTracked[index] = true
}

// SetStatusBit sets or clears one status bit and records it as changed so
// outbound synthesis can emit one packet per set bit in ascending order.
func (e *Entity) SetStatusBit(bit uint8, set bool) {
	mask := uint64(1) << bit
	if set {
		e.StatusBits |= mask
	} else {
		e.StatusBits &^= mask
	}
	e.changedStatus |= mask
}

// ChangedStatusBits returns the mask of status bits flipped this tick.
func (e *Entity) ChangedStatusBits() uint64 { return e.changedStatus }

// ChangedAnimationBits returns the mask of animation bits flipped this tick.
func (e *Entity) ChangedAnimationBits() uint64 { return e.changedAnimation }

func (e *Entity) SetAnimationBit(bit uint8, set bool) {
	mask := uint64(1) << bit
	if set {
		e.AnimationBits |= mask
	} else {
		e.AnimationBits &^= mask
	}
	e.changedAnimation |= mask
}

// endTick refreshes old-state snapshots and clears per-tick delta buffers.
func (e *Entity) endTick() {
	e.oldPosition = e.Position
	e.oldLook = e.Look
	e.oldLookSet = true
	e.ChangedTracked = nil
	e.changedStatus = 0
	e.changedAnimation = 0
	e.AddedThisTick = false
	e.ChangedThisTick = false
}

// BlockChange is one entry in a Chunk's per-tick block-update buffer.
type BlockChange struct {
	// Local is the position within the chunk, packed as (x<<8 | y<<4 | z).
	Local  uint16
	BlockID int32
}

// Chunk is one row of the world store's chunk table: a chunk column plus
// the per-tick block-update buffer and block-entity dirty set outbound
// synthesis reads.
type Chunk struct {
	Key Key

	X, Z int32
	Data []byte // paletted-container-encoded section data

	BlockUpdates  []BlockChange
	DirtyEntities map[int64]bool // block-entity positions with NBT changes this tick

	Layer Key
}

func (c *Chunk) recordBlockChange(local uint16, blockID int32) {
	c.BlockUpdates = append(c.BlockUpdates, BlockChange{Local: local, BlockID: blockID})
}

func (c *Chunk) recordBlockEntityChange(pos int64) {
	if c.DirtyEntities == nil {
		c.DirtyEntities = make(map[int64]bool)
	}
	c.DirtyEntities[pos] = true
}

func (c *Chunk) endTick() {
	c.BlockUpdates = c.BlockUpdates[:0]
	c.DirtyEntities = nil
}

// ChunkLayer is a named spatial container of chunks and entities, the
// visibility domain clients subscribe to.
type ChunkLayer struct {
	Key Key

	Name string

	viewers map[Key]bool

	buffer messageBuffer
}

func (l *ChunkLayer) addViewer(client Key) {
	if l.viewers == nil {
		l.viewers = make(map[Key]bool)
	}
	l.viewers[client] = true
}

func (l *ChunkLayer) removeViewer(client Key) {
	delete(l.viewers, client)
}

// AddViewer subscribes client to this layer's broadcasts.
func (l *ChunkLayer) AddViewer(client Key) { l.addViewer(client) }

// RemoveViewer unsubscribes client from this layer's broadcasts.
func (l *ChunkLayer) RemoveViewer(client Key) { l.removeViewer(client) }

// Viewers reports whether client currently views this layer.
func (l *ChunkLayer) Viewers(client Key) bool { return l.viewers[client] }

// EachViewer calls f for every client currently viewing this layer.
func (l *ChunkLayer) EachViewer(f func(Key)) {
	for k := range l.viewers {
		f(k)
	}
}

// Broadcast appends body under cond to the layer's outbound message buffer.
// Encoding happens once here regardless of recipient count; the Flush
// phase resolves cond per viewer.
func (l *ChunkLayer) Broadcast(cond Condition, body []byte) {
	l.buffer.Append(cond, body)
}

// Drain returns and clears the layer's buffered messages, for the Flush
// phase to resolve against each viewer's Condition.
func (l *ChunkLayer) Drain() []Message {
	return l.buffer.Drain()
}

func (l *ChunkLayer) endTick() {
	l.buffer.reset()
}

// InventorySlot is one item stack slot, kept opaque beyond a dirty flag: the
// item-stack encoding itself is the content-table collaborator's concern.
type InventorySlot struct {
	Data []byte // pre-encoded item stack, nil means empty
}

// Inventory is a fixed-size container of slots with a dirty-slot bitset so
// outbound synthesis can choose between per-slot and full-inventory sync.
type Inventory struct {
	Key Key

	WindowID int8
	StateID  int32

	Slots []InventorySlot
	dirty map[int]bool
}

// NewInventory allocates an Inventory with n empty slots.
func NewInventory(windowID int8, n int) *Inventory {
	return &Inventory{WindowID: windowID, Slots: make([]InventorySlot, n)}
}

// SetSlot replaces a slot's contents, marks it dirty and advances StateID.
func (inv *Inventory) SetSlot(i int, data []byte) {
	if i < 0 || i >= len(inv.Slots) {
		return
	}
	inv.Slots[i] = InventorySlot{Data: data}
	if inv.dirty == nil {
		inv.dirty = make(map[int]bool)
	}
	inv.dirty[i] = true
	inv.StateID++
}

// DirtySlots returns the indexes changed this tick, in ascending order.
func (inv *Inventory) DirtySlots() []int {
	if len(inv.dirty) == 0 {
		return nil
	}
	out := make([]int, 0, len(inv.dirty))
	for i := range inv.dirty {
		out = append(out, i)
	}
	sortInts(out)
	return out
}

func (inv *Inventory) endTick() {
	inv.dirty = nil
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// PlayerListEntry is one tab-list row.
type PlayerListEntry struct {
	UUID        [16]byte
	Name        string
	GameMode    uint8
	Latency     int32
	DisplayName string
}

// PlayerList is the server-wide tab-list table. It keeps no per-client
// last-sent snapshot, so nothing diffs it: the only tab-list action sent
// from it is AddPlayer (at join and via BroadcastPlayerListAdd), and no
// UpdateGameMode/UpdateLatency/UpdateDisplayName/Remove action is derived
// from its changes.
type PlayerList struct {
	Key Key

	Entries map[[16]byte]PlayerListEntry
}

func NewPlayerList() *PlayerList {
	return &PlayerList{Entries: make(map[[16]byte]PlayerListEntry)}
}

// BossBar is one boss bar's server-side state plus its subscriber set, the
// Add/Remove/UpdateX actions being diffed against viewer membership and
// field changes.
type BossBar struct {
	Key Key

	UUID [16]byte

	Title  string
	Health float32
	Color  uint8
	Style  uint8
	Flags  uint8

	oldTitle  string
	oldHealth float32
	oldColor  uint8
	oldStyle  uint8
	oldFlags  uint8

	Viewers    map[Key]bool
	oldViewers map[Key]bool
}

func (b *BossBar) addViewer(c Key) {
	if b.Viewers == nil {
		b.Viewers = make(map[Key]bool)
	}
	b.Viewers[c] = true
}

func (b *BossBar) removeViewer(c Key) { delete(b.Viewers, c) }

// AddedViewers returns the viewers present now but not at the start of the
// tick, who need an Add action rather than a field-update action.
func (b *BossBar) AddedViewers() []Key {
	var out []Key
	for k := range b.Viewers {
		if !b.oldViewers[k] {
			out = append(out, k)
		}
	}
	return out
}

// RemovedViewers returns the viewers present at the start of the tick but
// not now, who need a Remove action.
func (b *BossBar) RemovedViewers() []Key {
	var out []Key
	for k := range b.oldViewers {
		if !b.Viewers[k] {
			out = append(out, k)
		}
	}
	return out
}

// FieldsChanged reports whether any of Title/Health/Color/Style/Flags
// differ from the previous tick's snapshot.
func (b *BossBar) FieldsChanged() bool {
	return b.Title != b.oldTitle || b.Health != b.oldHealth || b.Color != b.oldColor ||
		b.Style != b.oldStyle || b.Flags != b.oldFlags
}

func (b *BossBar) endTick() {
	b.oldTitle, b.oldHealth, b.oldColor, b.oldStyle, b.oldFlags = b.Title, b.Health, b.Color, b.Style, b.Flags
	b.oldViewers = make(map[Key]bool, len(b.Viewers))
	for k := range b.Viewers {
		b.oldViewers[k] = true
	}
}

// ClientView is the set of chunk positions a client currently receives
// updates for.
type ClientView struct {
	Center    [2]int32
	Radius    int32
	Positions map[[2]int32]bool
}

// Client is one connected player's row: identity, view state, and the keys
// of its Entity row and its ChunkLayer.
type Client struct {
	Key Key

	Name string
	UUID [16]byte

	EntityKey Key
	Layer     Key

	View, oldView ClientView

	GameMode, PreviousGameMode uint8

	RemoveRequested bool

	// outbound is the per-client socket-facing queue Send fills (the Flush
	// phase among its callers) and the connection's write loop drains.
	outbound chan []byte
}

func newClientView() ClientView {
	return ClientView{Positions: make(map[[2]int32]bool)}
}

// outboundQueueSize bounds how many unflushed packets a Client's direct
// send queue (used for client-specific packets such as boss bars and the
// tab list, which aren't scoped to a single ChunkLayer) holds before a Send
// drops the packet rather than blocking the tick.
const outboundQueueSize = 256

// NewClient allocates a Client row with its direct-send queue ready.
func NewClient(name string, uuid [16]byte) *Client {
	return &Client{
		Name:     name,
		UUID:     uuid,
		View:     newClientView(),
		oldView:  newClientView(),
		outbound: make(chan []byte, outboundQueueSize),
	}
}

// Send enqueues a pre-encoded packet for delivery to this client, used by
// collaborators whose recipient set isn't expressible as a ChunkLayer
// Condition (boss bars, the tab list, inventories). It reports whether the
// packet was queued; a false return means the queue was full and the
// packet was dropped rather than stalling the tick.
func (c *Client) Send(data []byte) bool {
	select {
	case c.outbound <- data:
		return true
	default:
		return false
	}
}

// Outbound returns the channel the connection's write loop drains.
func (c *Client) Outbound() <-chan []byte { return c.outbound }

// OldViewCenter returns the view center as of the start of this tick, for
// detecting a SetChunkCacheCenter-worthy re-centre.
func (c *Client) OldViewCenter() [2]int32 { return c.oldView.Center }

// OldViewPositions returns the set of chunk positions viewed as of the
// start of this tick.
func (c *Client) OldViewPositions() map[[2]int32]bool { return c.oldView.Positions }

func (c *Client) endTick() {
	oldPositions := make(map[[2]int32]bool, len(c.View.Positions))
	for pos := range c.View.Positions {
		oldPositions[pos] = true
	}
	c.oldView = ClientView{Center: c.View.Center, Radius: c.View.Radius, Positions: oldPositions}
}

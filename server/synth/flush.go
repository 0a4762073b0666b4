package synth

import "github.com/birchwood-mc/birchwood/server/world"

// FlushLayer drains layer's buffered messages and delivers each one to the
// clients its Condition resolves to. This is the Flush-phase work for one
// ChunkLayer.
func FlushLayer(store *world.Store, layer *world.ChunkLayer) {
	for _, msg := range layer.Drain() {
		layer.EachViewer(func(viewer world.Key) {
			if !resolves(store, msg.Cond, viewer) {
				return
			}
			if client, ok := store.Clients.Get(viewer); ok {
				client.Send(msg.Bytes)
			}
		})
	}
}

func resolves(store *world.Store, cond world.Condition, viewer world.Key) bool {
	switch cond.Kind {
	case world.ConditionAll:
		return true
	case world.ConditionExcept:
		return viewer != cond.Except
	case world.ConditionView:
		return clientViews(store, viewer, cond.Pos)
	case world.ConditionViewExcept:
		return viewer != cond.Except && clientViews(store, viewer, cond.Pos)
	case world.ConditionTransitionView:
		if !clientViews(store, viewer, cond.Pos) {
			return false
		}
		return !cond.HasUnview || !clientViews(store, viewer, cond.Unviewed)
	default:
		return false
	}
}

func clientViews(store *world.Store, viewer world.Key, pos [2]int32) bool {
	client, ok := store.Clients.Get(viewer)
	if !ok {
		return false
	}
	return client.View.Positions[pos]
}

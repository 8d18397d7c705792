package websocket

import (
	"nutrition-coach/pkg/logger"
)

type Broadcaster struct {
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast delivers payload to the members of room at the time of the call.
// Each delivery is independent; a member whose queue is full or closed is
// skipped. exclude names a connection to leave out, or "" for none. It
// returns the number of members the payload was queued for.
func (b *Broadcaster) Broadcast(room string, payload []byte, exclude string) int {
	peers := b.registry.Peers(room)

	delivered := 0
	for _, p := range peers {
		if exclude != "" && p.ID() == exclude {
			continue
		}
		if !p.Send(payload) {
			logger.Debug("Dropped message to %s in room %s", p.ID(), room)
			continue
		}
		delivered++
	}
	return delivered
}

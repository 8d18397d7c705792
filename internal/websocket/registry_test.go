package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePeer struct {
	id string

	mu       sync.Mutex
	received [][]byte
	full     bool
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) Send(message []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.full {
		return false
	}
	p.received = append(p.received, message)
	return true
}

func (p *fakePeer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.received)
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Join("c1", "lobby")
	once := r.MembersOf("lobby")
	r.Join("c1", "lobby")

	assert.Equal(t, once, r.MembersOf("lobby"))
	assert.Equal(t, []string{"c1"}, r.MembersOf("lobby"))
	assert.Equal(t, []string{"lobby"}, r.RoomsOf("c1"))
}

func TestRegistryUnknownRoomIsEmpty(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.MembersOf("nowhere"))
	assert.Empty(t, r.Peers("nowhere"))
}

func TestRegistryLeave(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", "a")
	r.Join("c2", "a")
	r.Join("c1", "b")

	r.Leave("c1", "a")
	r.Leave("c1", "a")
	r.Leave("c9", "a")

	assert.Equal(t, []string{"c2"}, r.MembersOf("a"))
	assert.Equal(t, []string{"b"}, r.RoomsOf("c1"))

	r.Leave("c2", "a")
	_, rooms := r.Stats()
	assert.Equal(t, 1, rooms)
}

func TestRegistryDisconnectAllPurgesEveryRoom(t *testing.T) {
	r := NewRegistry()
	c1 := &fakePeer{id: "c1"}
	c2 := &fakePeer{id: "c2"}
	r.Register(c1)
	r.Register(c2)
	r.Join("c1", "a")
	r.Join("c1", "b")
	r.Join("c2", "a")

	r.DisconnectAll("c1")
	r.DisconnectAll("c1")

	assert.Equal(t, []string{"c2"}, r.MembersOf("a"))
	assert.Empty(t, r.MembersOf("b"))
	assert.Empty(t, r.RoomsOf("c1"))

	connections, rooms := r.Stats()
	assert.Equal(t, 1, connections)
	assert.Equal(t, 1, rooms)
}

func TestRegistryConcurrentMembership(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			r.Register(&fakePeer{id: id})
			r.Join(id, "lobby")
			r.Peers("lobby")
			if i%2 == 0 {
				r.DisconnectAll(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.MembersOf("lobby"), 25)
}

func TestBroadcastReachesAllMembersOnly(t *testing.T) {
	r := NewRegistry()
	b := NewBroadcaster(r)

	c1, c2, outsider := &fakePeer{id: "c1"}, &fakePeer{id: "c2"}, &fakePeer{id: "c3"}
	for _, p := range []*fakePeer{c1, c2, outsider} {
		r.Register(p)
	}
	r.Join("c1", "room")
	r.Join("c2", "room")
	r.Join("c3", "other")

	delivered := b.Broadcast("room", []byte("hi"), "")

	assert.Equal(t, 2, delivered)
	assert.Equal(t, 1, c1.count())
	assert.Equal(t, 1, c2.count())
	assert.Equal(t, 0, outsider.count())
}

func TestBroadcastExclude(t *testing.T) {
	r := NewRegistry()
	b := NewBroadcaster(r)
	c1, c2 := &fakePeer{id: "c1"}, &fakePeer{id: "c2"}
	r.Register(c1)
	r.Register(c2)
	r.Join("c1", "room")
	r.Join("c2", "room")

	assert.Equal(t, 1, b.Broadcast("room", []byte("hi"), "c1"))
	assert.Equal(t, 0, c1.count())
	assert.Equal(t, 1, c2.count())
}

func TestBroadcastFailedDeliveryDoesNotStopOthers(t *testing.T) {
	r := NewRegistry()
	b := NewBroadcaster(r)
	stuck := &fakePeer{id: "a", full: true}
	ok := &fakePeer{id: "b"}
	r.Register(stuck)
	r.Register(ok)
	r.Join("a", "room")
	r.Join("b", "room")

	assert.Equal(t, 1, b.Broadcast("room", []byte("hi"), ""))
	assert.Equal(t, 1, ok.count())
}

func TestBroadcastAfterDisconnect(t *testing.T) {
	r := NewRegistry()
	b := NewBroadcaster(r)
	c1 := &fakePeer{id: "c1"}
	r.Register(c1)
	r.Join("c1", "room")
	r.DisconnectAll("c1")

	assert.Equal(t, 0, b.Broadcast("room", []byte("hi"), ""))
	assert.Equal(t, 0, c1.count())
}

func TestBroadcastUnknownRoom(t *testing.T) {
	b := NewBroadcaster(NewRegistry())
	assert.Equal(t, 0, b.Broadcast("ghost", []byte("hi"), ""))
}

func TestBroadcastIsNotReplayedToLateJoiner(t *testing.T) {
	r := NewRegistry()
	b := NewBroadcaster(r)
	early, late := &fakePeer{id: "early"}, &fakePeer{id: "late"}
	r.Register(early)
	r.Register(late)

	r.Join("early", "room")
	b.Broadcast("room", []byte("first"), "")
	r.Join("late", "room")
	b.Broadcast("room", []byte("second"), "")

	assert.Equal(t, 2, early.count())
	late.mu.Lock()
	defer late.mu.Unlock()
	assert.Equal(t, [][]byte{[]byte("second")}, late.received)
}

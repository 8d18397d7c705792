package websocket

import (
	"sort"
	"sync"
)

// Peer is a live connection the registry can hand to the broadcaster.
type Peer interface {
	ID() string
	Send(message []byte) bool
}

// Registry tracks room membership in both directions: room to connections
// and connection to rooms. All membership state lives behind one lock.
type Registry struct {
	mu     sync.RWMutex
	peers  map[string]Peer
	rooms  map[string]map[string]struct{}
	joined map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		peers:  make(map[string]Peer),
		rooms:  make(map[string]map[string]struct{}),
		joined: make(map[string]map[string]struct{}),
	}
}

func (r *Registry) Register(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[p.ID()] = p
}

// Join is idempotent.
func (r *Registry) Join(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[room] = members
	}
	members[connID] = struct{}{}

	rooms, ok := r.joined[connID]
	if !ok {
		rooms = make(map[string]struct{})
		r.joined[connID] = rooms
	}
	rooms[room] = struct{}{}
}

// Leave is idempotent.
func (r *Registry) Leave(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID, room)
}

func (r *Registry) leaveLocked(connID, room string) {
	if members, ok := r.rooms[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	if rooms, ok := r.joined[connID]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(r.joined, connID)
		}
	}
}

// DisconnectAll drops the connection from every room it joined and forgets
// its handle. Calling it for an unknown id is a no-op.
func (r *Registry) DisconnectAll(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.joined[connID] {
		r.leaveLocked(connID, room)
	}
	delete(r.joined, connID)
	delete(r.peers, connID)
}

// MembersOf returns the connection ids in room, sorted. An unknown room has
// no members.
func (r *Registry) MembersOf(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.rooms[room])
}

func (r *Registry) RoomsOf(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.joined[connID])
}

// Peers snapshots the registered handles of room members.
func (r *Registry) Peers(room string) []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	peers := make([]Peer, 0, len(members))
	for id := range members {
		if p, ok := r.peers[id]; ok {
			peers = append(peers, p)
		}
	}
	return peers
}

// All snapshots every registered handle.
func (r *Registry) All() []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peers := make([]Peer, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, p)
	}
	return peers
}

func (r *Registry) Stats() (connections, rooms int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers), len(r.rooms)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

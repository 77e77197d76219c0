package realtime

import (
	"sync"
)

// Router tracks websocket sessions and their room memberships for the
// lifetime of the process. Rooms are keyed by the deterministic room key
// both participants derive from their sorted identities, so fan-out stays
// scoped to the pair; membership is ephemeral and rebuilt on reconnect.
type Router struct {
	mu               sync.RWMutex
	sessions         map[string]*Connection            // sessionID -> connection
	identitySessions map[string]string                 // identity -> sessionID
	rooms            map[string]map[string]*Connection // room key -> sessionID -> connection
	sessionRooms     map[string]map[string]struct{}    // sessionID -> set of room keys
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:         make(map[string]*Connection),
		identitySessions: make(map[string]string),
		rooms:            make(map[string]map[string]*Connection),
		sessionRooms:     make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for its identity. A previous session for
// the same identity is removed and closed after the swap to enforce one
// active socket per user.
func (r *Router) Attach(conn *Connection) {
	var previous *Connection

	r.mu.Lock()
	if existingID, ok := r.identitySessions[conn.Identity]; ok {
		if existing := r.sessions[existingID]; existing != nil {
			previous = existing
			r.detachLocked(existingID)
		}
	}

	r.sessions[conn.ID] = conn
	r.identitySessions[conn.Identity] = conn.ID
	r.sessionRooms[conn.ID] = make(map[string]struct{})
	r.mu.Unlock()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join subscribes the connection to the room.
func (r *Router) Join(room string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[conn.ID]; !ok {
		return
	}

	members := r.rooms[room]
	if members == nil {
		members = make(map[string]*Connection)
		r.rooms[room] = members
	}
	members[conn.ID] = conn

	memberships := r.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.sessionRooms[conn.ID] = memberships
	}
	memberships[room] = struct{}{}
}

// Leave removes the connection from the room.
func (r *Router) Leave(room string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(room, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to every member of the room, and only to them,
// reporting how many deliveries were enqueued.
func (r *Router) Broadcast(room string, payload []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	if len(members) == 0 {
		return 0
	}

	delivered := 0
	for _, conn := range members {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.identitySessions = make(map[string]string)
	r.rooms = make(map[string]map[string]*Connection)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if current, ok := r.identitySessions[conn.Identity]; ok && current == sessionID {
		delete(r.identitySessions, conn.Identity)
	}

	for room := range r.sessionRooms[sessionID] {
		r.leaveLocked(room, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Router) leaveLocked(room string, sessionID string) {
	if sessionID == "" {
		return
	}
	members := r.rooms[room]
	if members == nil {
		return
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, room)
		if len(memberships) == 0 {
			delete(r.sessionRooms, sessionID)
		}
	}
}

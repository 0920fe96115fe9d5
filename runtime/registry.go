package runtime

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type session struct {
	userID string
	conn   contract.Connection
}

// Registry tracks at most one live connection per user.
// Sends happen outside the lock so a slow handle never blocks admissions.
type Registry struct {
	mu          sync.RWMutex
	log         *slog.Logger
	sessions    map[string]domain.ConnectionID  // map user -> current connection
	connections map[domain.ConnectionID]session // map connection -> owner and handle
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:         log,
		sessions:    make(map[string]domain.ConnectionID),
		connections: make(map[domain.ConnectionID]session),
	}
}

// Admit binds conn to userID and returns the id of the new binding.
// A previous connection of the same user is superseded and closed.
func (r *Registry) Admit(userID string, conn contract.Connection) domain.ConnectionID {
	connectionID := domain.ConnectionID(uuid.NewString())

	r.mu.Lock()
	previousID, hadPrevious := r.sessions[userID]
	var previous session
	if hadPrevious {
		previous = r.connections[previousID]
		delete(r.connections, previousID)
	}
	r.sessions[userID] = connectionID
	r.connections[connectionID] = session{userID: userID, conn: conn}
	r.mu.Unlock()

	if hadPrevious && previous.conn != nil {
		r.log.Debug("Superseding connection", "user_id", userID, "connection_id", previousID)
		previous.conn.Close()
	}
	r.log.Debug("Connection admitted", "user_id", userID, "connection_id", connectionID)
	return connectionID
}

// Remove unbinds a connection. It is a no-op when connectionID is no longer the
// user's current binding, so a late disconnect never evicts a newer session.
func (r *Registry) Remove(connectionID domain.ConnectionID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[userID]
	if !ok || current != connectionID {
		delete(r.connections, connectionID)
		return
	}
	delete(r.sessions, userID)
	delete(r.connections, connectionID)
	r.log.Debug("Connection removed", "user_id", userID, "connection_id", connectionID)
}

// SendTo delivers payload to the user's live connection if any.
// Offline users and send failures are not reported to the caller.
func (r *Registry) SendTo(userID string, payload []byte) {
	r.mu.RLock()
	var conn contract.Connection
	if connectionID, ok := r.sessions[userID]; ok {
		conn = r.connections[connectionID].conn
	}
	r.mu.RUnlock()

	if conn == nil {
		return
	}
	if err := conn.SendText(payload); err != nil {
		r.log.Warn("Delivery failed", "user_id", userID,
			"error", fmt.Errorf("%w: %w", errors.ErrDeliveryFailure, err))
	}
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[userID]
	return ok
}

func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every live connection, used at shutdown. Each session then
// removes itself through the normal disconnect path.
func (r *Registry) CloseAll() int {
	r.mu.RLock()
	conns := make([]contract.Connection, 0, len(r.connections))
	for _, s := range r.connections {
		conns = append(conns, s.conn)
	}
	r.mu.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
	return len(conns)
}

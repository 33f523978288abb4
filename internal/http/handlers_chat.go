package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"spendsmart/internal/chat"

	"github.com/google/uuid"
)

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string   `json:"session_id"`
	Replies   []string `json:"replies"`
}

const (
	sessionIdleTTL = 30 * time.Minute
	maxSessions    = 1000
)

// sessionRegistry keeps one dialogue engine per session. Turns within a
// session run serialized so the engine never sees concurrent input. Sessions
// idle past the TTL are evicted on the next lookup, and when the registry is
// full the longest-idle session is dropped to make room.
type sessionRegistry struct {
	mu        sync.Mutex
	sessions  map[string]*chatSession
	newEngine func() *chat.Engine
	ttl       time.Duration
	max       int
}

type chatSession struct {
	mu       sync.Mutex
	engine   *chat.Engine
	lastSeen time.Time
}

func newSessionRegistry(newEngine func() *chat.Engine) *sessionRegistry {
	return &sessionRegistry{
		sessions:  make(map[string]*chatSession),
		newEngine: newEngine,
		ttl:       sessionIdleTTL,
		max:       maxSessions,
	}
}

// session returns the engine for the ID, creating both on first use. An
// empty ID gets a fresh session with a generated ID.
func (r *sessionRegistry) session(id string) (string, *chatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.evictLocked(now)

	if id == "" {
		id = uuid.NewString()
	}
	sess, ok := r.sessions[id]
	if !ok {
		sess = &chatSession{engine: r.newEngine()}
		r.sessions[id] = sess
	}
	sess.lastSeen = now
	return id, sess
}

func (r *sessionRegistry) evictLocked(now time.Time) {
	for id, sess := range r.sessions {
		if now.Sub(sess.lastSeen) > r.ttl {
			delete(r.sessions, id)
		}
	}
	for len(r.sessions) >= r.max {
		oldestID := ""
		var oldest time.Time
		for id, sess := range r.sessions {
			if oldestID == "" || sess.lastSeen.Before(oldest) {
				oldestID = id
				oldest = sess.lastSeen
			}
		}
		delete(r.sessions, oldestID)
	}
}

// handleChat advances a dialogue session by one user message and returns the
// assistant's replies.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	id, sess := s.sessions.session(req.SessionID)

	sess.mu.Lock()
	replies := sess.engine.Handle(r.Context(), req.Message)
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: id,
		Replies:   replies,
	})
}

package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/fivejjs/gemini3-sample-chronos/internal/capture"
	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
)

// DefaultSessionTTL bounds how long an untouched session stays alive.
const DefaultSessionTTL = 30 * time.Minute

// Store holds the live workflow sessions, keyed by id. Sessions expire after
// a TTL of inactivity; expiry and deletion both release the camera the
// session may be holding.
type Store struct {
	cache       *gocache.Cache
	ttl         time.Duration
	transformer Transformer
	device      capture.Device
	log         zerolog.Logger
}

// NewStore builds a session store. The device is shared across sessions; each
// session wraps it in its own camera manager.
func NewStore(ttl time.Duration, transformer Transformer, device capture.Device, log zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	cache := gocache.New(ttl, ttl/2)
	cache.OnEvicted(func(id string, v interface{}) {
		if session, ok := v.(*Session); ok {
			session.Close()
			log.Info().Str("session", id).Msg("session: evicted")
		}
	})
	return &Store{
		cache:       cache,
		ttl:         ttl,
		transformer: transformer,
		device:      device,
		log:         log,
	}
}

// Create starts a fresh session and registers it under a new id.
func (st *Store) Create() *Session {
	id := uuid.NewString()
	session := newSession(id, st.transformer, capture.NewManager(st.device, st.log), st.log)
	st.cache.Set(id, session, gocache.DefaultExpiration)
	st.log.Info().Str("session", id).Msg("session: created")
	return session
}

// Get looks up a session and slides its expiry forward.
func (st *Store) Get(id string) (*Session, error) {
	v, ok := st.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	session := v.(*Session)
	st.cache.Set(id, session, gocache.DefaultExpiration)
	return session, nil
}

// Delete removes a session, releasing its resources via the eviction hook.
func (st *Store) Delete(id string) {
	st.cache.Delete(id)
}

// Len reports how many live sessions the store holds.
func (st *Store) Len() int {
	return st.cache.ItemCount()
}

// Close releases every live session. Called on shutdown.
func (st *Store) Close() {
	for id, item := range st.cache.Items() {
		if session, ok := item.Object.(*Session); ok {
			session.Close()
		}
		st.cache.Delete(id)
	}
}

package session

import "sync"

// Registry holds at most one in-progress session per user. Access to the
// map is synchronized, and Do serializes work on a single user's session.
type Registry struct {
	mu     sync.Mutex
	users  map[int64]*slot
	active int
}

type slot struct {
	mu      sync.Mutex
	session *Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[int64]*slot)}
}

// acquire returns the user's slot locked. A slot removed while waiting for
// its lock is abandoned and the lookup retried.
func (r *Registry) acquire(userID int64) *slot {
	for {
		r.mu.Lock()
		sl, ok := r.users[userID]
		if !ok {
			sl = &slot{}
			r.users[userID] = sl
		}
		r.mu.Unlock()

		sl.mu.Lock()
		r.mu.Lock()
		current := r.users[userID] == sl
		r.mu.Unlock()
		if current {
			return sl
		}
		sl.mu.Unlock()
	}
}

// Do runs fn with exclusive access to the user's session. The session passed
// to fn is nil when none exists; fn returns the session to keep, or nil to
// discard it.
func (r *Registry) Do(userID int64, fn func(s *Session) (*Session, error)) error {
	sl := r.acquire(userID)
	defer sl.mu.Unlock()

	had := sl.session != nil
	next, err := fn(sl.session)
	sl.session = next

	r.mu.Lock()
	switch {
	case had && next == nil:
		r.active--
	case !had && next != nil:
		r.active++
	}
	if next == nil {
		delete(r.users, userID)
	}
	r.mu.Unlock()
	return err
}

// Active returns the number of users with an in-progress session.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

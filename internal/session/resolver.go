package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/arkadelo/profilehub/internal/identity"
	"github.com/arkadelo/profilehub/internal/models"
	mongorepo "github.com/arkadelo/profilehub/internal/repositories/mongo"
)

// Snapshot is the resolver's view of the current session. Role "" means
// not yet determined and is distinct from RoleUser; callers must not
// gate on role while Loading is true.
type Snapshot struct {
	User     *identity.Identity
	Role     models.UserRole
	Loading  bool
	Degraded bool
	Err      error
}

// Resolver bridges identity-provider state to authorization state: it
// subscribes to the provider's event stream, resolves the role record
// for each authenticated identity, and creates the user record on a
// first-ever sign-in. One resolver per subscription; tests instantiate
// as many as they need.
type Resolver struct {
	provider identity.Provider
	users    mongorepo.UserRepository
	roles    *RoleReader
	log      *logrus.Logger

	mu   sync.RWMutex
	snap Snapshot

	unsub func()
	done  chan struct{}
	once  sync.Once
}

func NewResolver(provider identity.Provider, users mongorepo.UserRepository, roles *RoleReader, log *logrus.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		users:    users,
		roles:    roles,
		log:      log,
		snap:     Snapshot{Loading: true},
		done:     make(chan struct{}),
	}
}

// Start subscribes and processes events until ctx is cancelled or
// Close is called.
func (r *Resolver) Start(ctx context.Context) {
	events, unsub := r.provider.Subscribe()
	r.unsub = unsub

	go func() {
		defer close(r.done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				r.process(ctx, ev)
			}
		}
	}()
}

// Close tears the subscription down and waits for the event loop.
func (r *Resolver) Close() {
	r.once.Do(func() {
		if r.unsub != nil {
			r.unsub()
		}
	})
	<-r.done
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

func (r *Resolver) process(ctx context.Context, ev identity.Event) {
	next := Snapshot{}

	if id := ev.Identity; id != nil {
		next.User = id
		role, degraded := r.roles.Role(ctx, id.UID)
		next.Role = role
		next.Degraded = degraded

		// First-ever sign-in: create the user record with role user,
		// independent of whatever the read path produced. The write is
		// a merge and never demotes an existing role.
		if id.FirstSignIn() {
			if err := r.users.Init(ctx, id.UID, id.Email, id.DisplayName, id.PhotoURL); err != nil {
				r.log.WithError(err).WithField("uid", id.UID).Error("failed to initialize user record")
			} else {
				next.Role = models.RoleUser
				next.Degraded = false
			}
		}
	}

	r.mu.Lock()
	r.snap = next
	r.mu.Unlock()
}

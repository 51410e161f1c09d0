// Package view holds the identity-aware session state used to branch UI
// affordances. The state is a three-valued type, not a boolean plus nullable
// identity: until the first load resolves, the state is Loading, and nothing
// may treat a loading session as anonymous.
package view

import (
	"context"
	"log"
	"sync"

	"github.com/recipeshare/server/internal/entities"
	"github.com/recipeshare/server/internal/provider"
)

// State is the resolution state of the current session.
type State string

const (
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// SessionView is what the UI sees: the state plus the identity when (and
// only when) the state is StateAuthenticated.
type SessionView struct {
	State    State              `json:"state"`
	Identity *entities.Identity `json:"identity,omitempty"`
}

// Controller derives the session view from the credential client.
type Controller struct {
	auth provider.Authenticator

	mu      sync.RWMutex
	current SessionView
}

// NewController creates a session view controller. The initial state is
// Loading until the first Load resolves.
func NewController(auth provider.Authenticator) *Controller {
	return &Controller{
		auth:    auth,
		current: SessionView{State: StateLoading},
	}
}

// Current returns the last resolved view. Before any Load it is Loading.
func (vc *Controller) Current() SessionView {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.current
}

// Load resolves the identity behind the given access token. Every failure,
// including transport errors, resolves to a visible anonymous state with a
// logged diagnostic: a stale authenticated view must never survive an error.
func (vc *Controller) Load(ctx context.Context, accessToken string) SessionView {
	if accessToken == "" {
		return vc.set(SessionView{State: StateAnonymous})
	}

	identity, err := vc.auth.GetUser(ctx, accessToken)
	if err != nil {
		log.Printf("Session load failed, treating as anonymous: %v", err)
		return vc.set(SessionView{State: StateAnonymous})
	}

	return vc.set(SessionView{State: StateAuthenticated, Identity: identity})
}

// SignOut invalidates the session with the provider and unconditionally
// clears local state. A failed remote call is logged and otherwise ignored:
// local state must not contradict a user-initiated logout.
func (vc *Controller) SignOut(ctx context.Context, accessToken string) SessionView {
	if accessToken != "" {
		if err := vc.auth.SignOut(ctx, accessToken); err != nil {
			log.Printf("Remote sign-out failed, clearing local state anyway: %v", err)
		}
	}
	return vc.set(SessionView{State: StateAnonymous})
}

func (vc *Controller) set(view SessionView) SessionView {
	vc.mu.Lock()
	vc.current = view
	vc.mu.Unlock()
	return view
}

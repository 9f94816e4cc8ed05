// Package depth bounds container nesting for one encode or decode call.
package depth

import (
	bcserrors "github.com/zefchain/bcs/internal/errors"
)

// Guard counts the container scopes currently open. It is not safe for
// concurrent use; each call owns its own Guard.
type Guard struct {
	max     int
	current int
}

// New returns a Guard admitting at most max nested scopes.
func New(max int) *Guard {
	return &Guard{max: max}
}

// Enter opens a scope named container, failing once max scopes are open.
// Every successful Enter must be paired with Exit.
func (g *Guard) Enter(container string) error {
	if g.current >= g.max {
		return bcserrors.ExceededDepth(container)
	}
	g.current++
	return nil
}

// Exit closes the innermost scope.
func (g *Guard) Exit() {
	if g.current > 0 {
		g.current--
	}
}

// Scope runs body inside a scope and restores the depth on every exit path.
func (g *Guard) Scope(container string, body func() error) error {
	if err := g.Enter(container); err != nil {
		return err
	}
	defer g.Exit()
	return body()
}

// Depth returns the number of open scopes.
func (g *Guard) Depth() int {
	return g.current
}

// Max returns the configured limit.
func (g *Guard) Max() int {
	return g.max
}

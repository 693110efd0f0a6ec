// Package registry provides a global registry of adversary movement policies.
// Policies register themselves in init() functions so the server and the
// headless client can pick one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

// Policy decides where an adversary moves. Policies see exactly what the
// controller offers any agent: the actor's view and its valid destinations.
type Policy interface {
	// ID returns the name the policy is registered under (e.g. "zombie").
	ID() string

	// Title returns a human-readable description.
	Title() string

	// Choose picks one of req.Destinations. Returning req.Position skips
	// the turn.
	Choose(req dungeon.TurnRequest) core.Point
}

// PolicyInfo contains metadata about a registered policy.
type PolicyInfo struct {
	ID    string
	Title string
}

// Factory creates a policy. seed drives any randomness it uses.
type Factory func(seed int64) Policy

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a policy factory to the registry.
// Panics if a policy with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: policy %q already registered", id))
	}

	factories[id] = f
	titles[id] = f(0).Title()
}

// List returns all registered policies, sorted by ID.
func List() []PolicyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PolicyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, PolicyInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a policy by its ID.
func Create(id string, seed int64) (Policy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown policy %q", id)
	}

	return f(seed), nil
}

// Exists checks if a policy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

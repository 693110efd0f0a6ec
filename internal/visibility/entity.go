// Package visibility derives what a player can see of a level.
package visibility

import "fmt"

// EntityType is what a view cell shows. Declaration order is priority: when
// several entities share a tile the highest one is shown.
type EntityType int

const (
	Empty EntityType = iota
	Space
	Wall
	Hall
	Door
	Exit
	Key
	Adversary
	Player
)

var entityNames = [...]string{
	Empty:     "empty",
	Space:     "space",
	Wall:      "wall",
	Hall:      "hall",
	Door:      "door",
	Exit:      "exit",
	Key:       "key",
	Adversary: "adversary",
	Player:    "player",
}

func (e EntityType) String() string {
	if e < 0 || int(e) >= len(entityNames) {
		return "unknown"
	}
	return entityNames[e]
}

// ParseEntityType is the inverse of EntityType.String.
func ParseEntityType(s string) (EntityType, error) {
	for i, name := range entityNames {
		if name == s {
			return EntityType(i), nil
		}
	}
	return Empty, fmt.Errorf("unknown entity type %q", s)
}

// Max returns the higher-priority of a and b.
func Max(a, b EntityType) EntityType {
	if a > b {
		return a
	}
	return b
}

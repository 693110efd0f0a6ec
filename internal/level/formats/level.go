// Package formats provides the level file parsers. Each parser turns raw
// bytes into the logical level shape consumed by level.Build; no geometry
// validation happens here beyond shape checks.
package formats

import (
	"fmt"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// Layout codes used in room tile grids.
const (
	CodeWall  = 0
	CodeSpace = 1
	CodeDoor  = 2
)

// Coord is a [row, col] pair as it appears in level files.
type Coord []int

// Point converts the coordinate, failing unless it has exactly two elements.
func (c Coord) Point() (core.Point, error) {
	if len(c) != 2 {
		return core.Point{}, fmt.Errorf("point must be [row, col], got %v", []int(c))
	}
	return core.Pt(c[0], c[1]), nil
}

// FileRoom is a room object as it appears in level files.
type FileRoom struct {
	Type   string     `json:"type,omitempty" yaml:"type,omitempty"`
	Origin Coord      `json:"origin" yaml:"origin"`
	Bounds FileBounds `json:"bounds" yaml:"bounds"`
	Layout [][]int    `json:"layout" yaml:"layout"`
}

// FileBounds holds room dimensions.
type FileBounds struct {
	Rows    int `json:"rows" yaml:"rows"`
	Columns int `json:"columns" yaml:"columns"`
}

// FileHall is a hallway object as it appears in level files.
type FileHall struct {
	Type      string  `json:"type,omitempty" yaml:"type,omitempty"`
	From      Coord   `json:"from" yaml:"from"`
	To        Coord   `json:"to" yaml:"to"`
	Waypoints []Coord `json:"waypoints" yaml:"waypoints"`
}

// FileObject is a key or exit placement.
type FileObject struct {
	Type     string `json:"type" yaml:"type"`
	Position Coord  `json:"position" yaml:"position"`
}

// FileSpawns holds optional adversary spawn counts.
type FileSpawns struct {
	Zombies int `json:"zombies" yaml:"zombies"`
	Ghosts  int `json:"ghosts" yaml:"ghosts"`
}

// FileLevel is one level object as it appears in level files.
type FileLevel struct {
	Type        string       `json:"type,omitempty" yaml:"type,omitempty"`
	Rooms       []FileRoom   `json:"rooms" yaml:"rooms"`
	Hallways    []FileHall   `json:"hallways" yaml:"hallways"`
	Objects     []FileObject `json:"objects" yaml:"objects"`
	Adversaries *FileSpawns  `json:"adversaries,omitempty" yaml:"adversaries,omitempty"`
}

// Room is a parsed room definition.
type Room struct {
	Origin core.Point
	Rows   int
	Cols   int
	Layout [][]int
}

// Hall is a parsed hall definition.
type Hall struct {
	From      core.Point
	To        core.Point
	Waypoints []core.Point
}

// Spawns is the number of adversaries of each kind a level places.
type Spawns struct {
	Zombies int
	Ghosts  int
}

// Level represents a parsed level ready for level.Build.
type Level struct {
	Rooms  []Room
	Halls  []Hall
	Key    core.Point
	Exit   core.Point
	Spawns *Spawns // nil when the file does not say
}

// convert turns a file level into its parsed form. idx locates failures.
func (fl FileLevel) convert(idx int) (Level, error) {
	var lvl Level

	for i, fr := range fl.Rooms {
		origin, err := fr.Origin.Point()
		if err != nil {
			return Level{}, malformed(idx, "room %d origin: %v", i, err).WithMeta("room", i)
		}
		lvl.Rooms = append(lvl.Rooms, Room{
			Origin: origin,
			Rows:   fr.Bounds.Rows,
			Cols:   fr.Bounds.Columns,
			Layout: fr.Layout,
		})
	}

	for i, fh := range fl.Hallways {
		from, err := fh.From.Point()
		if err != nil {
			return Level{}, malformed(idx, "hall %d from: %v", i, err).WithMeta("hall", i)
		}
		to, err := fh.To.Point()
		if err != nil {
			return Level{}, malformed(idx, "hall %d to: %v", i, err).WithMeta("hall", i)
		}
		h := Hall{From: from, To: to}
		for j, w := range fh.Waypoints {
			p, err := w.Point()
			if err != nil {
				return Level{}, malformed(idx, "hall %d waypoint %d: %v", i, j, err).WithMeta("hall", i)
			}
			h.Waypoints = append(h.Waypoints, p)
		}
		lvl.Halls = append(lvl.Halls, h)
	}

	var keys, exits int
	for _, obj := range fl.Objects {
		p, err := obj.Position.Point()
		if err != nil {
			return Level{}, malformed(idx, "%s position: %v", obj.Type, err)
		}
		switch obj.Type {
		case "key":
			lvl.Key = p
			keys++
		case "exit":
			lvl.Exit = p
			exits++
		default:
			return Level{}, malformed(idx, "unknown object type %q", obj.Type)
		}
	}
	if keys != 1 {
		return Level{}, malformed(idx, "level must have exactly one key, found %d", keys)
	}
	if exits != 1 {
		return Level{}, malformed(idx, "level must have exactly one exit, found %d", exits)
	}

	if fl.Adversaries != nil {
		if fl.Adversaries.Zombies < 0 || fl.Adversaries.Ghosts < 0 {
			return Level{}, malformed(idx, "adversary counts must not be negative")
		}
		lvl.Spawns = &Spawns{Zombies: fl.Adversaries.Zombies, Ghosts: fl.Adversaries.Ghosts}
	}

	return lvl, nil
}

func malformed(idx int, format string, args ...any) *errors.Error {
	return errors.MalformedLevelf("level %d: %s", idx, fmt.Sprintf(format, args...)).WithMeta("level", idx)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".json", ".levels", ".yaml", ".yml"}
}

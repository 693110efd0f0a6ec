package registry

import (
	"testing"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

type stayPolicy struct{}

func (stayPolicy) ID() string    { return "test-stay" }
func (stayPolicy) Title() string { return "Stays put" }

func (stayPolicy) Choose(req dungeon.TurnRequest) core.Point {
	return req.Position
}

func TestRegisterAndCreate(t *testing.T) {
	Register("test-stay", func(int64) Policy { return stayPolicy{} })

	if !Exists("test-stay") {
		t.Fatal("Exists(test-stay) = false, expected true")
	}

	p, err := Create("test-stay", 1)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	req := dungeon.TurnRequest{Position: core.Pt(3, 4)}
	if got := p.Choose(req); got != req.Position {
		t.Errorf("Choose() = %v, expected %v", got, req.Position)
	}

	found := false
	for _, info := range List() {
		if info.ID == "test-stay" {
			found = info.Title == "Stays put"
		}
	}
	if !found {
		t.Error("List() should include test-stay with its title")
	}

	if _, err := Create("missing", 1); err == nil {
		t.Error("Create(missing) should fail")
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("test-stay", func(int64) Policy { return stayPolicy{} })
}

package formats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// ParseJSON parses a level stream: a leading level count followed by that
// many level objects, whitespace separated.
//
//	2
//	{"type": "level", "rooms": [...], "hallways": [...], "objects": [...]}
//	{"type": "level", ...}
func ParseJSON(data []byte) ([]Level, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var count int
	if err := dec.Decode(&count); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeMalformedLevel, "level count")
	}
	if count < 1 {
		return nil, errors.MalformedLevelf("level count must be positive, got %d", count)
	}

	levels := make([]Level, 0, count)
	for i := 0; i < count; i++ {
		var fl FileLevel
		if err := dec.Decode(&fl); err != nil {
			if err == io.EOF {
				return nil, errors.MalformedLevelf("expected %d levels, found %d", count, i)
			}
			return nil, errors.WrapWithCode(err, errors.CodeMalformedLevel, fmt.Sprintf("level %d", i)).
				WithMeta("level", i)
		}
		lvl, err := fl.convert(i)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}

	if dec.More() {
		return nil, errors.MalformedLevelf("more than %d levels in file", count)
	}

	return levels, nil
}

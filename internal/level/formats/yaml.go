package formats

import (
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// YAMLFile represents the YAML structure for a level file.
type YAMLFile struct {
	Count  int         `yaml:"count,omitempty"`
	Levels []FileLevel `yaml:"levels"`
}

// ParseYAML parses a YAML level file. The count is optional; when present it
// must match the number of levels listed.
func ParseYAML(data []byte) ([]Level, error) {
	var yf YAMLFile
	if err := yaml.Unmarshal(data, &yf); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeMalformedLevel, "yaml unmarshal")
	}

	if len(yf.Levels) == 0 {
		return nil, errors.MalformedLevel("no levels in file")
	}
	if yf.Count != 0 && yf.Count != len(yf.Levels) {
		return nil, errors.MalformedLevelf("count says %d levels, found %d", yf.Count, len(yf.Levels))
	}

	levels := make([]Level, 0, len(yf.Levels))
	for i, fl := range yf.Levels {
		lvl, err := fl.convert(i)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}

package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/congregation-run/congregation/internal/diag"
	"github.com/congregation-run/congregation/internal/task"
)

// fileTask is one entry of a YAML task file.
type fileTask struct {
	Command string `yaml:"command"`
	Name    string `yaml:"name"`
	Dir     string `yaml:"dir"`
	Color   string `yaml:"color"`
}

// taskFile is the on-disk shape of --file input.
type taskFile struct {
	Tasks []fileTask `yaml:"tasks"`
}

// LoadFile reads task definitions from a YAML file:
//
//	tasks:
//	  - command: npm run dev
//	    name: app
//	    dir: ./app
//	    color: ff8800
//
// It applies the same defaults and fallbacks as the argument grammar.
func LoadFile(path, defaultColor string) ([]task.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Errorf("cannot read task file", "%v", err)
	}

	var file taskFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, diag.Errorf("invalid task file", "%s: %v", path, err)
	}

	defs := make([]task.Definition, 0, len(file.Tasks))
	for i, ft := range file.Tasks {
		if ft.Command == "" {
			return nil, &diag.Error{
				Title:   fmt.Sprintf("invalid task file (in task %d)", i+1),
				Message: "every task needs a command",
			}
		}
		def, err := makeDefinition(ft.Command, ft.Name, ft.Dir, ft.Color, i, defaultColor)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Package llexamples provides embedded example Landlock Config
// documents for the llconfigctl CLI's --template flag, in the same
// embed.FS-plus-name-lookup shape the teacher uses for its own
// built-in configuration templates.
package llexamples

import (
	"embed"
	"sort"
	"strings"

	"github.com/landlock-lsm/landlockconfig/llconfig"
)

//go:embed *.toml
var examplesFS embed.FS

var descriptions = map[string]string{
	"minimal-readonly": "Read+execute on the standard system directories only",
	"workspace-write":  "Read+execute on the system, read+write on the current directory and /tmp",
	"network-client":   "System read+execute plus outbound TCP to ports 80 and 443",
}

// Example names one embedded Landlock Config template.
type Example struct {
	Name        string
	Description string
}

// List returns every embedded example, sorted by name.
func List() []Example {
	entries, err := examplesFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var out []Example
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".toml")
		desc := descriptions[name]
		if desc == "" {
			desc = "No description available"
		}
		out = append(out, Example{Name: name, Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Load parses the named embedded example into a Policy.
func Load(name string) (*llconfig.Policy, error) {
	data, err := examplesFS.ReadFile(name + ".toml")
	if err != nil {
		return nil, errNotFound(name)
	}
	return llconfig.ParseTOML(strings.NewReader(string(data)))
}

type errNotFound string

func (e errNotFound) Error() string { return "template " + string(e) + " not found" }

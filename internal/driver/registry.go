package driver

import (
	"fmt"
	"sort"
)

// registry maps model names to definitions. It is populated from init()
// in builtins.go and read-only afterwards, so lookups need no locking.
var registry = map[string]*Definition{}

// Register inserts a definition under its name. Duplicate names are a
// programming error and rejected so they surface at startup, not when an
// operator happens to select the model.
func Register(def *Definition) error {
	if def.Name == "" {
		return fmt.Errorf("driver definition has no name")
	}
	if _, dup := registry[def.Name]; dup {
		return fmt.Errorf("duplicate driver name %q", def.Name)
	}
	registry[def.Name] = def
	return nil
}

func mustRegister(def *Definition) {
	if err := Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered under name.
func Lookup(name string) (*Definition, error) {
	def, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known models: %v)", ErrUnknownModel, name, Names())
	}
	return def, nil
}

// Names returns every registered model name, sorted, for CLI help and
// validation messages.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

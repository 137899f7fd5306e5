package encoder

import (
	"fmt"
	"strings"

	"github.com/Rochumback/wasm-image-converter/internal/profile"
)

// Registry holds one ready encoder per built-in target.
type Registry struct {
	encoders map[string]Encoder
	targets  map[string]profile.Target
}

// NewRegistry builds encoders for every built-in target.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
		targets:  make(map[string]profile.Target),
	}
	for _, name := range profile.Names() {
		t := profile.MustGet(name)
		enc, err := New(t)
		if err != nil {
			// Built-in targets are validated by tests.
			panic(err)
		}
		r.encoders[name] = enc
		r.targets[name] = t
	}
	return r
}

// Get returns the encoder for a target name or alias, or nil if unknown.
func (r *Registry) Get(name string) Encoder {
	t, ok := profile.Get(strings.ToLower(name))
	if !ok {
		return nil
	}
	return r.encoders[t.Name]
}

// Target returns the target an encoder was built from.
func (r *Registry) Target(name string) (profile.Target, bool) {
	t, ok := profile.Get(strings.ToLower(name))
	if !ok {
		return profile.Target{}, false
	}
	return r.targets[t.Name], true
}

// Names returns all target names, sorted.
func (r *Registry) Names() []string {
	return profile.Names()
}

// String returns a summary of available targets.
func (r *Registry) String() string {
	return fmt.Sprintf("targets: %s", strings.Join(r.Names(), ", "))
}

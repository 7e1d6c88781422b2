// Package seeders loads demo catalogue and account rows for local use.
// Each seeder registers itself by name from init and must be idempotent.
package seeders

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc writes one kind of demo data.
type SeederFunc func(db *gorm.DB) error

type seeder struct {
	name string
	fn   SeederFunc
}

var registry = struct {
	sync.Mutex
	order []seeder
}{}

// Register adds fn under name. Registering a name twice panics.
func Register(name string, fn SeederFunc) {
	registry.Lock()
	defer registry.Unlock()
	for _, s := range registry.order {
		if s.name == name {
			panic(fmt.Sprintf("seeders: %q registered twice", name))
		}
	}
	registry.order = append(registry.order, seeder{name: name, fn: fn})
}

// Names lists registered seeders alphabetically.
func Names() []string {
	registry.Lock()
	defer registry.Unlock()
	names := make([]string, 0, len(registry.order))
	for _, s := range registry.order {
		names = append(names, s.name)
	}
	sort.Strings(names)
	return names
}

// RunAll runs every seeder in registration order.
func RunAll(db *gorm.DB, out io.Writer) error {
	return Run(db, out)
}

// Run runs the named seeders in registration order, or all of them when no
// names are given. An unknown name fails before anything is written.
func Run(db *gorm.DB, out io.Writer, names ...string) error {
	selected, err := pick(names)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(out, "no seeders registered")
		return nil
	}
	for _, s := range selected {
		if err := s.fn(db); err != nil {
			fmt.Fprintf(out, "seed %-10s failed\n", s.name)
			return fmt.Errorf("seeders: %s: %w", s.name, err)
		}
		fmt.Fprintf(out, "seed %-10s ok\n", s.name)
	}
	return nil
}

func pick(names []string) ([]seeder, error) {
	registry.Lock()
	defer registry.Unlock()
	if len(names) == 0 {
		return append([]seeder(nil), registry.order...), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []seeder
	for _, s := range registry.order {
		if want[s.name] {
			out = append(out, s)
			delete(want, s.name)
		}
	}
	for n := range want {
		return nil, fmt.Errorf("seeders: unknown seeder %q", n)
	}
	return out, nil
}

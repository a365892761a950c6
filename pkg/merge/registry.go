package merge

import "strconv"

// Namespace tracks the names already committed to the output for one kind of
// entity and allocates collision-free replacements. Allocation is
// deterministic: the lowest unused suffix wins.
type Namespace struct {
	used   map[string]bool
	suffix func(n int) string
}

func newNamespace(suffix func(n int) string) *Namespace {
	return &Namespace{used: make(map[string]bool), suffix: suffix}
}

// Reserve commits name to the namespace. If the name is free it is returned
// unchanged; otherwise the lowest numbered suffixed variant that is still
// free is reserved and returned with changed = true.
func (ns *Namespace) Reserve(name string) (final string, changed bool) {
	if !ns.used[name] {
		ns.used[name] = true
		return name, false
	}
	for n := 1; ; n++ {
		candidate := name + ns.suffix(n)
		if !ns.used[candidate] {
			ns.used[candidate] = true
			return candidate, true
		}
	}
}

// Used reports whether name is already committed.
func (ns *Namespace) Used(name string) bool {
	return ns.used[name]
}

// Registry holds the per-run name namespaces for elements and signals.
// Element collisions get "_1", "_2", ... suffixes; signal collisions get
// bare "1", "2", ... suffixes, matching how board tools commonly number
// duplicate nets (GND, GND1, GND2).
type Registry struct {
	Elements *Namespace
	Signals  *Namespace
}

// NewRegistry creates an empty registry. One registry serves exactly one
// merge run and is discarded afterwards.
func NewRegistry() *Registry {
	return &Registry{
		Elements: newNamespace(func(n int) string { return "_" + strconv.Itoa(n) }),
		Signals:  newNamespace(strconv.Itoa),
	}
}

package lint

import (
	"cmp"
	"slices"
	"sync"
)

// Registry holds all registered lint rules.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Rule
	byName  map[string]Rule
	aliases map[string]string // alias -> canonical ID
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Rule),
		byName:  make(map[string]Rule),
		aliases: make(map[string]string),
	}
}

// Register adds a rule to the registry, along with any legacy aliases it
// declares. If a rule with the same ID already exists, it is replaced.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.byID[rule.ID()]; ok {
		delete(r.byName, previous.Name())
	}

	r.byID[rule.ID()] = rule
	r.byName[rule.Name()] = rule

	if aliased, ok := rule.(Aliased); ok {
		for _, alias := range aliased.Aliases() {
			r.aliases[alias] = rule.ID()
		}
	}
}

// RegisterAlias maps an alias to a canonical rule ID.
// Used for legacy markdownlint compatibility (e.g., "single-title" -> "MD025").
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = ruleID
}

// Get retrieves a rule by ID or name.
// It tries ID first, then falls back to name lookup.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[key]; ok {
		return rule, true
	}
	if rule, ok := r.byName[key]; ok {
		return rule, true
	}
	return nil, false
}

// GetByID retrieves a rule by its ID only.
func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byID[id]
	return rule, ok
}

// Resolve returns the canonical ID and rule for a given key.
// The key can be a rule ID, name, or legacy alias.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(key)
}

func (r *Registry) resolveLocked(key string) (string, Rule, bool) {
	if rule, ok := r.byID[key]; ok {
		return rule.ID(), rule, true
	}
	if rule, ok := r.byName[key]; ok {
		return rule.ID(), rule, true
	}
	if targetID, ok := r.aliases[key]; ok {
		if rule, ok := r.byID[targetID]; ok {
			return rule.ID(), rule, true
		}
	}
	return "", nil, false
}

// ResolveKey maps a configuration key to rule IDs. A rule ID, name, or alias
// resolves to one ID; a tag resolves to every rule carrying it, sorted.
// Unknown keys resolve to nothing.
func (r *Registry) ResolveKey(key string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, _, ok := r.resolveLocked(key); ok {
		return []string{id}
	}

	var ids []string
	for id, rule := range r.byID {
		if slices.Contains(rule.Tags(), key) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Rules returns all registered rules sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}

	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.ID(), b.ID())
	})

	return result
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byID))
	for id := range r.byID {
		result = append(result, id)
	}

	slices.Sort(result)
	return result
}

// ImplementedRules returns the sorted IDs of every rule that implements Fixer.
func (r *Registry) ImplementedRules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []string
	for id, rule := range r.byID {
		if IsFixable(rule) {
			result = append(result, id)
		}
	}

	slices.Sort(result)
	return result
}

// DefaultRegistry is the global registry for built-in rules.
// It is populated once at init by the rules package and read-only afterwards.
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()

// GetImplementedRules lists the IDs of the auto-fixable rules in DefaultRegistry.
func GetImplementedRules() []string {
	return DefaultRegistry.ImplementedRules()
}

package resolve

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/registry"
)

// DefaultCacheSize bounds the number of memoized type sets per run
const DefaultCacheSize = 1024

// TypeSet is the ordered, deduplicated closure of every declaration reachable
// from one root type, the root first. Sets returned by a Collector may be
// shared between callers and must not be modified.
type TypeSet []*registry.Decl

// Refs returns the TypeRefs of the set in order.
func (s TypeSet) Refs() []registry.TypeRef {
	refs := make([]registry.TypeRef, len(s))
	for i, decl := range s {
		refs[i] = decl.Ref
	}
	return refs
}


// Collector computes TypeSets against a read-only Registry. It is safe for
// concurrent use: each Collect call walks with its own seen set and the memo
// cache is internally synchronized.
type Collector struct {
	reg   *registry.Registry
	cache *lru.Cache[registry.TypeRef, TypeSet]
}

// NewCollector creates a collector over reg. A cacheSize <= 0 disables
// memoization.
func NewCollector(reg *registry.Registry, cacheSize int) *Collector {
	c := &Collector{reg: reg}
	if cacheSize > 0 {
		// lru.New only fails for a non-positive size
		c.cache, _ = lru.New[registry.TypeRef, TypeSet](cacheSize)
	}
	return c
}

// Collect returns the TypeSet rooted at root. The walk is depth first in
// declaration order: a type is appended on first visit, followed by the
// types nested directly inside it and then the types its fields reference.
// Types already seen are neither re-added nor re-walked, which keeps
// recursive and diamond-shaped graphs finite.
func (c *Collector) Collect(root registry.TypeRef) (TypeSet, error) {
	if c.cache != nil {
		if set, ok := c.cache.Get(root); ok {
			return set, nil
		}
	}

	w := &walker{
		reg:  c.reg,
		seen: make(map[registry.TypeRef]struct{}),
	}
	if err := w.visit(root, true); err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(root, w.out)
	}
	return w.out, nil
}

type walker struct {
	reg  *registry.Registry
	seen map[registry.TypeRef]struct{}
	out  TypeSet
}

func (w *walker) visit(ref registry.TypeRef, root bool) error {
	if _, ok := w.seen[ref]; ok {
		return nil
	}

	decl, err := w.reg.Lookup(ref)
	if err != nil {
		return err
	}
	w.seen[ref] = struct{}{}

	// Map entries are synthetic; the map field itself documents key and
	// value, so only the value type is walked.
	if decl.IsMapEntry() && !root {
		return w.visitFields(decl)
	}

	w.out = append(w.out, decl)
	if decl.Kind == registry.KindEnum {
		return nil
	}

	for _, nested := range decl.Message.GetNestedType() {
		if nested.GetOptions().GetMapEntry() {
			continue
		}
		if err := w.visit(registry.Join(string(decl.Ref), nested.GetName()), false); err != nil {
			return err
		}
	}
	for _, enum := range decl.Message.GetEnumType() {
		if err := w.visit(registry.Join(string(decl.Ref), enum.GetName()), false); err != nil {
			return err
		}
	}

	return w.visitFields(decl)
}

func (w *walker) visitFields(decl *registry.Decl) error {
	for _, field := range decl.Message.GetField() {
		if field.GetTypeName() == "" {
			continue
		}
		if err := w.visit(registry.ParseTypeRef(field.GetTypeName()), false); err != nil {
			return fmt.Errorf("field %s.%s: %w", decl.Ref, field.GetName(), err)
		}
	}
	return nil
}

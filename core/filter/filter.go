package filter

import (
	"strings"

	"scene-mirror/core/host"
	"scene-mirror/core/schema"
)

// Context decides which attributes and top-level collections a traversal visits.
// It is immutable once built and safe for concurrent use.
type Context struct {
	registry    *schema.Registry
	properties  map[string]struct{}
	qualified   map[string]struct{}
	types       map[string]struct{}
	collections map[string]struct{}
}

// New builds a filtering context for reg from cfg.
func New(reg *schema.Registry, cfg Config) *Context {
	c := &Context{
		registry:    reg,
		properties:  make(map[string]struct{}),
		qualified:   make(map[string]struct{}),
		types:       toSet(cfg.ExcludeTypes),
		collections: toSet(cfg.ExcludeCollections),
	}
	for _, p := range cfg.ExcludeProperties {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, ".") {
			c.qualified[p] = struct{}{}
		} else {
			c.properties[p] = struct{}{}
		}
	}
	return c
}

// Default returns a context that visits everything.
func Default(reg *schema.Registry) *Context {
	return New(reg, Config{})
}

// Registry returns the schema the context filters.
func (c *Context) Registry() *schema.Registry {
	return c.registry
}

// Collections returns the visited top-level collection names, sorted.
func (c *Context) Collections() []string {
	names := c.registry.CollectionNames()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, skip := c.collections[name]; !skip {
			out = append(out, name)
		}
	}
	return out
}

// Visits reports whether the top-level collection name is visited.
func (c *Context) Visits(collection string) bool {
	if _, ok := c.registry.TypeForCollection(collection); !ok {
		return false
	}
	_, skip := c.collections[collection]
	return !skip
}

// Properties returns the attributes of s the traversal visits.
func (c *Context) Properties(s host.Struct) []*schema.Property {
	t := s.Type()
	if c.ExcludesType(t) {
		return nil
	}
	all := s.Properties()
	out := make([]*schema.Property, 0, len(all))
	for _, p := range all {
		if c.excludesProperty(t, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ExcludesType reports whether t, or one of its bases, is excluded.
func (c *Context) ExcludesType(t *schema.Type) bool {
	for ; t != nil; t = t.Base {
		if _, ok := c.types[t.Name]; ok {
			return true
		}
	}
	return false
}

func (c *Context) excludesProperty(t *schema.Type, p *schema.Property) bool {
	if _, ok := c.properties[p.Name]; ok {
		return true
	}
	for owner := t; owner != nil; owner = owner.Base {
		if _, ok := c.qualified[owner.Name+"."+p.Name]; ok {
			return true
		}
	}
	return p.FixedType != nil && c.ExcludesType(p.FixedType)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

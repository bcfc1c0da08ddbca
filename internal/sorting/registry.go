// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package sorting

import (
	"fmt"
	"sort"
)

// Field maps a logical sortable name to the queryable path behind it.
// An empty Path means the path equals the name.
type Field struct {
	Name string
	Path string
}

// Relation lets fields of Target be sorted on while searching through
// Root.Field. Paths of Target are qualified with Prefix, usually a join alias.
type Relation struct {
	Root   string `json:"root"`
	Field  string `json:"relation"`
	Target string `json:"target"`
	Prefix string `json:"prefix"`
}

type relationKey struct {
	root  string
	field string
}

type entityFields struct {
	paths map[string]string
	names []string
}

// Registry is the allow-list of sortable fields per entity type.
// It is immutable once built and safe for concurrent readers without locking.
type Registry struct {
	entities  map[string]*entityFields
	relations map[relationKey]Relation
}

// RegistryBuilder accumulates registrations. It is not safe for concurrent use;
// build once during startup.
type RegistryBuilder struct {
	entities  map[string]*entityFields
	relations map[relationKey]Relation
	order     []relationKey
	err       error
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		entities:  make(map[string]*entityFields),
		relations: make(map[relationKey]Relation),
	}
}

// Entity registers the sortable fields of an entity type. An entity may be
// registered with no fields; such an entity accepts only empty clauses.
func (b *RegistryBuilder) Entity(name string, fields ...Field) *RegistryBuilder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = fmt.Errorf("%w: entity", ErrEmptyName)
		return b
	}
	if _, exists := b.entities[name]; exists {
		b.err = fmt.Errorf("%w: entity %q", ErrDuplicateEntry, name)
		return b
	}

	ef := &entityFields{paths: make(map[string]string, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			b.err = fmt.Errorf("%w: field of entity %q", ErrEmptyName, name)
			return b
		}
		if _, exists := ef.paths[f.Name]; exists {
			b.err = fmt.Errorf("%w: %s.%s", ErrDuplicateField, name, f.Name)
			return b
		}
		path := f.Path
		if path == "" {
			path = f.Name
		}
		ef.paths[f.Name] = path
		ef.names = append(ef.names, f.Name)
	}
	sort.Strings(ef.names)

	b.entities[name] = ef
	return b
}

// Relation registers a joined path from root through field to target.
func (b *RegistryBuilder) Relation(root, field, target, prefix string) *RegistryBuilder {
	if b.err != nil {
		return b
	}
	if root == "" || field == "" || target == "" {
		b.err = fmt.Errorf("%w: relation %q.%q -> %q", ErrEmptyName, root, field, target)
		return b
	}

	key := relationKey{root: root, field: field}
	if _, exists := b.relations[key]; exists {
		b.err = fmt.Errorf("%w: relation %s.%s", ErrDuplicateEntry, root, field)
		return b
	}
	if prefix == "" {
		prefix = field
	}

	b.relations[key] = Relation{Root: root, Field: field, Target: target, Prefix: prefix}
	b.order = append(b.order, key)
	return b
}

// Build validates the registrations and freezes them.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}

	for _, key := range b.order {
		rel := b.relations[key]
		if _, ok := b.entities[rel.Root]; !ok {
			return nil, fmt.Errorf("%w: relation root %q", ErrUnknownEntity, rel.Root)
		}
		if _, ok := b.entities[rel.Target]; !ok {
			return nil, fmt.Errorf("%w: relation target %q", ErrUnknownEntity, rel.Target)
		}
	}

	reg := &Registry{
		entities:  b.entities,
		relations: b.relations,
	}

	// Detach so later builder calls cannot reach the frozen maps.
	b.entities = make(map[string]*entityFields)
	b.relations = make(map[relationKey]Relation)
	b.order = nil
	b.err = ErrBuilderUsed

	return reg, nil
}

// HasEntity reports whether entity was registered.
func (r *Registry) HasEntity(entity string) bool {
	_, ok := r.entities[entity]
	return ok
}

// Entities returns the registered entity names, sorted.
func (r *Registry) Entities() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns the sortable field names of entity, sorted. The result is a copy.
func (r *Registry) Fields(entity string) []string {
	ef, ok := r.entities[entity]
	if !ok {
		return nil
	}
	return append([]string(nil), ef.names...)
}

// Relations returns the relations targeting entity, ordered by root then field.
func (r *Registry) Relations(entity string) []Relation {
	var out []Relation
	for _, rel := range r.relations {
		if rel.Target == entity {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Root != out[j].Root {
			return out[i].Root < out[j].Root
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// HasRelation reports whether root.relation is registered and leads to target.
func (r *Registry) HasRelation(root, relation, target string) bool {
	rel, ok := r.relations[relationKey{root: root, field: relation}]
	return ok && rel.Target == target
}

// Lookup returns the queryable path of a logical field in the given scope.
func (r *Registry) Lookup(entity, root, relation, name string) (string, bool) {
	paths, prefix, err := r.scope(entity, root, relation)
	if err != nil {
		return "", false
	}
	path, ok := paths[name]
	if !ok {
		return "", false
	}
	return qualify(prefix, path), true
}

// scope returns the field table and path prefix for a search scope.
func (r *Registry) scope(entity, root, relation string) (map[string]string, string, error) {
	if root == "" && relation == "" {
		if ef, ok := r.entities[entity]; ok {
			return ef.paths, "", nil
		}
		return nil, "", nil
	}

	rel, ok := r.relations[relationKey{root: root, field: relation}]
	if root == "" || relation == "" || !ok || rel.Target != entity {
		return nil, "", &RelationError{Entity: entity, Root: root, Relation: relation}
	}
	return r.entities[entity].paths, rel.Prefix, nil
}

func qualify(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}

// Package memory implements the document store as an in-memory tree for
// development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// DocumentStore holds a hierarchical tree of JSON-like values.
type DocumentStore struct {
	mu   sync.RWMutex
	root map[string]any
}

// New creates an empty DocumentStore.
func New() *DocumentStore {
	return &DocumentStore{root: make(map[string]any)}
}

// Update merges the value's top-level keys into the subtree at path,
// leaving sibling keys untouched.
func (s *DocumentStore) Update(_ context.Context, path string, value any) error {
	fields, err := asObject(value)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	node, err := s.descend(path, true)
	if err != nil {
		return err
	}
	for key, val := range fields {
		node[key] = val
	}
	return nil
}

// Set replaces the subtree at path with the value, discarding prior
// children not present in the new value.
func (s *DocumentStore) Set(_ context.Context, path string, value any) error {
	normalized, err := normalize(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	segments := splitPath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(segments) == 0 {
		fields, ok := normalized.(map[string]any)
		if !ok {
			return fmt.Errorf("set %s: root value must be an object", path)
		}
		s.root = fields
		return nil
	}

	parent, err := s.descendSegments(segments[:len(segments)-1], true)
	if err != nil {
		return err
	}
	parent[segments[len(segments)-1]] = normalized
	return nil
}

// Get returns the value stored at path, if any. Test helper.
func (s *DocumentStore) Get(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var node any = s.root
	for _, segment := range splitPath(path) {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (s *DocumentStore) descend(path string, create bool) (map[string]any, error) {
	return s.descendSegments(splitPath(path), create)
}

func (s *DocumentStore) descendSegments(segments []string, create bool) (map[string]any, error) {
	node := s.root
	for _, segment := range segments {
		child, ok := node[segment]
		if !ok {
			if !create {
				return nil, fmt.Errorf("path segment %q not found", segment)
			}
			next := make(map[string]any)
			node[segment] = next
			node = next
			continue
		}
		m, ok := child.(map[string]any)
		if !ok {
			if !create {
				return nil, fmt.Errorf("path segment %q is not a subtree", segment)
			}
			m = make(map[string]any)
			node[segment] = m
		}
		node = m
	}
	return node, nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// normalize converts arbitrary values into the JSON-shaped form the tree
// stores, so struct and map writes read back identically.
func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

func asObject(value any) (map[string]any, error) {
	normalized, err := normalize(value)
	if err != nil {
		return nil, err
	}
	fields, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("merge value must be an object")
	}
	return fields, nil
}

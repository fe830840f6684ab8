// Package catalog provides the static educational content library. The
// library is immutable after construction and needs no locking.
package catalog

import (
	"errors"
	"sort"
)

// DefaultLevel is the level key every entry is required to carry.
const DefaultLevel = "beginner"

// ErrNotFound is returned for unknown subject or topic keys.
var ErrNotFound = errors.New("content not found")

// Entry holds the material for one (subject, topic) pair. Text is keyed by
// education level; DefaultLevel must always be present.
type Entry struct {
	Levels   map[string]string
	Examples []string
	Practice []string
}

// Content is the resolved view returned to callers.
type Content struct {
	Subject  string   `json:"subject"`
	Topic    string   `json:"topic"`
	Content  string   `json:"content"`
	Examples []string `json:"examples"`
	Practice []string `json:"practice"`
}

// Catalog is a read-only subject → topic → Entry mapping.
type Catalog struct {
	subjects map[string]map[string]Entry
}

// New returns the catalog seeded with the built-in content library.
func New() *Catalog {
	return &Catalog{subjects: library}
}

// Subjects lists all subject names in sorted order.
func (c *Catalog) Subjects() []string {
	names := make([]string, 0, len(c.subjects))
	for name := range c.subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Topics lists the topic names of a subject in sorted order, or ErrNotFound.
func (c *Catalog) Topics(subject string) ([]string, error) {
	topics, ok := c.subjects[subject]
	if !ok {
		return nil, ErrNotFound
	}
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Content resolves the material for (subject, topic) at the requested level.
// An absent level key falls back to DefaultLevel text, but the entry itself
// must exist or ErrNotFound is returned.
func (c *Catalog) Content(subject, topic, level string) (*Content, error) {
	topics, ok := c.subjects[subject]
	if !ok {
		return nil, ErrNotFound
	}
	entry, ok := topics[topic]
	if !ok {
		return nil, ErrNotFound
	}

	if level == "" {
		level = DefaultLevel
	}
	text, ok := entry.Levels[level]
	if !ok {
		text = entry.Levels[DefaultLevel]
	}

	return &Content{
		Subject:  subject,
		Topic:    topic,
		Content:  text,
		Examples: entry.Examples,
		Practice: entry.Practice,
	}, nil
}

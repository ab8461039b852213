// Package metadata turns the raw "Group:Key" metadata of an item into
// sorted groups for display.
package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultGroup holds keys without a "Group:" prefix
const DefaultGroup = "General"

// Entry is one key/value row of a group
type Entry struct {
	Group string
	Key   string
	Value string
}

// Group is a named set of entries, sorted by key
type Group struct {
	Name    string
	Entries []Entry
}

// GroupBy splits every "Group:Key" on its first colon and groups the
// values. Groups and keys are sorted lexicographically.
func GroupBy(raw map[string]any) []Group {
	byName := make(map[string][]Entry)
	for k, v := range raw {
		group, key, ok := strings.Cut(k, ":")
		if !ok {
			group, key = DefaultGroup, k
		}
		byName[group] = append(byName[group], Entry{Group: group, Key: key, Value: FormatValue(v)})
	}

	groups := make([]Group, 0, len(byName))
	for name, entries := range byName {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
		groups = append(groups, Group{Name: name, Entries: entries})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// FormatValue renders a scalar metadata value
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; print integral values without a fraction
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = FormatValue(p)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// Rows flattens groups back into entries in display order
func Rows(groups []Group) []Entry {
	var rows []Entry
	for _, g := range groups {
		rows = append(rows, g.Entries...)
	}
	return rows
}

// rowSource implements sahilm/fuzzy.Source over "group:key value" strings
type rowSource []Entry

func (s rowSource) String(i int) string {
	e := s[i]
	return strings.ToLower(e.Group + ":" + e.Key + " " + e.Value)
}

func (s rowSource) Len() int { return len(s) }

// Filter keeps the groups whose rows fuzzy-match query, preserving order.
// An empty query returns groups unchanged.
func Filter(groups []Group, query string) []Group {
	query = strings.TrimSpace(query)
	if query == "" {
		return groups
	}

	rows := Rows(groups)
	matches := fuzzy.FindFrom(strings.ToLower(query), rowSource(rows))

	keep := make(map[int]bool, len(matches))
	for _, m := range matches {
		keep[m.Index] = true
	}

	var out []Group
	idx := 0
	for _, g := range groups {
		var entries []Entry
		for _, e := range g.Entries {
			if keep[idx] {
				entries = append(entries, e)
			}
			idx++
		}
		if len(entries) > 0 {
			out = append(out, Group{Name: g.Name, Entries: entries})
		}
	}
	return out
}

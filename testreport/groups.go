package testreport

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GroupStats maps group names to their counters, keeping the order in which groups first appeared.
// It serializes to a JSON object whose keys follow that order.
type GroupStats struct {
	names  []string
	counts map[string]Counts
}

func newGroupStats() GroupStats {
	return GroupStats{counts: make(map[string]Counts)}
}

// Names returns the group names in order of first appearance
func (g GroupStats) Names() []string {
	names := make([]string, len(g.names))
	copy(names, g.names)
	return names
}

// Get returns the counters of a group
func (g GroupStats) Get(name string) (Counts, bool) {
	c, ok := g.counts[name]
	return c, ok
}

// Len returns the number of distinct groups
func (g GroupStats) Len() int {
	return len(g.names)
}

func (g *GroupStats) add(name string, status Status) {
	if g.counts == nil {
		g.counts = make(map[string]Counts)
	}
	c, ok := g.counts[name]
	if !ok {
		g.names = append(g.names, name)
	}
	c.Add(status)
	g.counts[name] = c
}

// MarshalJSON writes the groups as an object in insertion order
func (g GroupStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range g.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(g.counts[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, preserving the key order of the document
func (g *GroupStats) UnmarshalJSON(data []byte) error {
	*g = newGroupStats()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("per_group: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("per_group: expected group name, got %v", tok)
		}
		var c Counts
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("per_group %q: %w", name, err)
		}
		if _, dup := g.counts[name]; !dup {
			g.names = append(g.names, name)
		}
		g.counts[name] = c
	}

	_, err = dec.Token()
	return err
}

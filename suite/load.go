package suite

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"authcheck-cli/testrunner"
)

// Parse decodes one suite document
func Parse(data []byte) ([]Group, error) {
	var groups []Group
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&groups); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "invalid suite document")
	}
	return groups, nil
}

// Load reads the files in order and merges groups with the same name
func Load(paths ...string) ([]Group, error) {
	var all []Group
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read suite file %s", path)
		}
		groups, err := Parse(data)
		if err != nil {
			return nil, errors.WithMessage(err, path)
		}
		all = append(all, groups...)
	}
	return Merge(all), nil
}

// Merge joins groups sharing a name, keeping the position of the first occurrence
func Merge(groups []Group) []Group {
	var merged []Group
	index := make(map[string]int)
	for _, g := range groups {
		if i, ok := index[g.Name]; ok {
			merged[i].Entries = append(merged[i].Entries, g.Entries...)
			continue
		}
		index[g.Name] = len(merged)
		merged = append(merged, Group{Name: g.Name, Entries: append([]Entry(nil), g.Entries...)})
	}
	return merged
}

// Cases turns groups into runnable cases
func Cases(groups []Group) []testrunner.Case {
	filter := NewOutputFilter()
	var cases []testrunner.Case
	for _, g := range groups {
		for _, e := range g.Entries {
			cases = append(cases, testrunner.Case{Name: e.Name, Group: g.Name, Unit: e.unit(filter)})
		}
	}
	return cases
}

// Registry rereads the suite files on every run
func Registry(paths ...string) testrunner.Registry {
	return testrunner.RegistryFunc(func() ([]testrunner.Case, error) {
		groups, err := Load(paths...)
		if err != nil {
			return nil, err
		}
		return Cases(groups), nil
	})
}

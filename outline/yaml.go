package outline

import (
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	"tocgen/toc"
)

// node is a single entry of YAML outline:
//
//	- title: Part One
//	  link: part1.xhtml
//	  level: 0
//	  children:
//	    - title: Chapter 1
//	      link: ch1.xhtml
type node struct {
	Title    string `yaml:"title"`
	Link     string `yaml:"link"`
	Level    *int   `yaml:"level"`
	Children []node `yaml:"children"`
}

func (n *node) entry() *toc.Entry {
	e := toc.NewEntry(n.Link, n.Title)
	if n.Level != nil {
		e.SetLevel(*n.Level)
	}
	for i := range n.Children {
		e.Child(n.Children[i].entry())
	}
	return e
}

// FromYAML reads outline - YAML list of entries with optional explicit
// levels and nested children. Nested children levels are adjusted to be
// deeper than their parents. Returned entries are ready for toc.Toc.Add.
func FromYAML(r io.Reader) ([]*toc.Entry, error) {
	var nodes []node

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&nodes); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to decode outline: %w", err)
	}

	entries := make([]*toc.Entry, 0, len(nodes))
	for i := range nodes {
		entries = append(entries, nodes[i].entry())
	}
	return entries, nil
}

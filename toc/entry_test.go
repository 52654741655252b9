package toc

import (
	"slices"
	"testing"
)

// levels returns entry levels in pre-order.
func levels(entries ...*Entry) []int {
	var out []int
	walk(entries, 1, func(e *Entry, _ int) bool {
		out = append(out, e.Level)
		return true
	})
	return out
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("chapter_1.xhtml", "Chapter 1")
	if e.Level != 1 {
		t.Errorf("Level = %d, want 1", e.Level)
	}
	if e.Link != "chapter_1.xhtml" || e.Title != "Chapter 1" {
		t.Errorf("NewEntry() = %+v", e)
	}
	if len(e.Children) != 0 {
		t.Errorf("expected no children, got %d", len(e.Children))
	}
	if got := e.SetLevel(-3); got != e || e.Level != -3 {
		t.Errorf("SetLevel() did not update entry in place: %+v", got)
	}
}

func TestEntryChild(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Entry
		want  []int
	}{
		{
			name: "shallower child is moved one level down",
			build: func() *Entry {
				return NewEntry("foo.xhtml", "Foo").Child(NewEntry("bar.xhtml", "Bar").SetLevel(0))
			},
			want: []int{1, 2},
		},
		{
			name: "same level child is moved one level down",
			build: func() *Entry {
				return NewEntry("foo.xhtml", "Foo").Child(NewEntry("bar.xhtml", "Bar"))
			},
			want: []int{1, 2},
		},
		{
			name: "deeper child is kept as is",
			build: func() *Entry {
				return NewEntry("foo.xhtml", "Foo").Child(NewEntry("bar.xhtml", "Bar").SetLevel(42))
			},
			want: []int{1, 42},
		},
		{
			name: "nested structure is normalized recursively",
			build: func() *Entry {
				return NewEntry("ch1.xhtml", "Chapter 1").
					Child(NewEntry("ch1.xhtml#1", "Section 1").
						Child(NewEntry("ch1.xhtml#1-1", "Subsection 1")))
			},
			want: []int{1, 2, 3},
		},
		{
			name: "prebuilt subtree is pushed down keeping strict nesting",
			build: func() *Entry {
				sub := NewEntry("a", "A").SetLevel(1)
				sub.Children = []*Entry{
					NewEntry("b", "B").SetLevel(1),
					NewEntry("c", "C").SetLevel(2),
					NewEntry("d", "D").SetLevel(7),
				}
				return NewEntry("root", "Root").SetLevel(1).Child(sub)
			},
			want: []int{1, 2, 3, 3, 7},
		},
		{
			name: "negative levels are compared numerically",
			build: func() *Entry {
				return NewEntry("p", "P").SetLevel(-5).Child(NewEntry("c", "C").SetLevel(-10))
			},
			want: []int{-5, -4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := levels(tt.build())
			if !slices.Equal(got, tt.want) {
				t.Errorf("levels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntryChildKeepsOrder(t *testing.T) {
	e := NewEntry("p", "P").
		Child(NewEntry("1", "one")).
		Child(NewEntry("2", "two")).
		Child(NewEntry("3", "three"))

	var got []string
	for _, c := range e.Children {
		got = append(got, c.Link)
	}
	if !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("children order = %v", got)
	}
}

func TestEntryAdd(t *testing.T) {
	e := NewEntry("ch1.xhtml", "Chapter 1")
	e.Add(NewEntry("ch1.xhtml#s1", "Section 1").SetLevel(2))
	e.Add(NewEntry("ch1.xhtml#s1-1", "Subsection").SetLevel(3))
	e.Add(NewEntry("ch1.xhtml#s2", "Section 2").SetLevel(2))
	// not deeper than the last child - becomes a sibling, level untouched
	e.Add(NewEntry("ch2.xhtml", "Chapter 2").SetLevel(1))

	if len(e.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(e.Children))
	}
	if len(e.Children[0].Children) != 1 || e.Children[0].Children[0].Link != "ch1.xhtml#s1-1" {
		t.Errorf("subsection was not nested under section 1: %+v", e.Children[0])
	}
	if e.Children[2].Level != 1 {
		t.Errorf("Add() must not change entry level, got %d", e.Children[2].Level)
	}
}

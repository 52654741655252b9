// Package toc builds hierarchical tables of contents and renders them as
// nested lists or as NCX navigation map.
package toc

// Entry is a single node of the table of contents. Entry owns its children,
// once added to the tree it should not be shared.
type Entry struct {
	// Level is nesting depth: 0 - part, 1 - chapter, 2 - section, ...
	Level int
	// Link is reference to content location, used as is.
	Link string
	// Title is display text, may be empty.
	Title    string
	Children []*Entry
}

// NewEntry creates leaf entry at level 1.
func NewEntry(link, title string) *Entry {
	return &Entry{
		Level: 1,
		Link:  link,
		Title: title,
	}
}

// SetLevel sets entry level explicitly.
func (e *Entry) SetLevel(level int) *Entry {
	e.Level = level
	return e
}

// levelUp changes level recursively, so nested entries stay deeper than
// their parents. Level only grows here, so every child which was not deeper
// than the old level is not deeper than the new one either.
func (e *Entry) levelUp(level int) {
	e.Level = level
	for _, child := range e.Children {
		if child.Level <= e.Level {
			child.levelUp(level + 1)
		}
	}
}

// Child attaches other as the last child of e. Level of other is adjusted
// to be level of e plus 1 if necessary, so there is no point in setting
// levels manually for entries nested this way. Ownership of other passes
// to e.
func (e *Entry) Child(other *Entry) *Entry {
	if other.Level <= e.Level {
		other.levelUp(e.Level + 1)
	}
	e.Children = append(e.Children, other)
	return e
}

// Add inserts other into e according to its level: when it is deeper than
// the last child it goes under that child (recursively), otherwise it is
// appended to e children.
func (e *Entry) Add(other *Entry) {
	e.Children = insert(e.Children, other)
}

// insert places entry into siblings list or, when its level is deeper than
// the last sibling, into the last sibling children, all the way down the
// rightmost spine. Only the last sibling is ever considered.
func insert(siblings []*Entry, entry *Entry) []*Entry {
	if len(siblings) == 0 {
		return append(siblings, entry)
	}
	last := siblings[len(siblings)-1]
	if entry.Level > last.Level {
		last.Children = insert(last.Children, entry)
		return siblings
	}
	return append(siblings, entry)
}

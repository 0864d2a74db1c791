package model

// UnclassifiedName is the persisted form of an unclassified group.
const UnclassifiedName = "None"

// Group is the category label of a transaction. The zero value is
// Unclassified.
type Group struct {
	name string
}

// Unclassified is the sentinel group of a record no rule has matched yet.
var Unclassified = Group{}

// Classified returns the group for a category name. An empty name or the
// persisted sentinel yields Unclassified.
func Classified(name string) Group {
	if name == UnclassifiedName {
		return Unclassified
	}
	return Group{name: name}
}

// IsClassified reports whether a rule has assigned a category.
func (g Group) IsClassified() bool { return g.name != "" }

// Name returns the category name, or "" when unclassified.
func (g Group) Name() string { return g.name }

// String returns the persisted form of the group.
func (g Group) String() string {
	if g.name == "" {
		return UnclassifiedName
	}
	return g.name
}

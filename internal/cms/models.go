// Package cms wires the content model (members and groups) into the
// GraphQL schema registry. The model is deliberately small; it exists to
// exercise type creators, connections and nested connections end to end.
package cms

import "github.com/samber/lo"

// Member is a CMS account holder.
type Member struct {
	ID        string
	FirstName string
	Surname   string
	Email     string
	GroupIDs  []string
}

// Group is a named collection of members.
type Group struct {
	ID    string
	Title string
	Code  string
}

// Store holds the in-memory content set served by the demo schema.
// Reads only; the store is fixed after construction.
type Store struct {
	members []Member
	groups  []Group
}

// NewStore creates a store over the given records.
func NewStore(members []Member, groups []Group) *Store {
	return &Store{members: members, groups: groups}
}

// Members returns every member as list elements.
func (s *Store) Members() []interface{} {
	return lo.Map(s.members, func(m Member, _ int) interface{} { return m })
}

// Groups returns every group as list elements.
func (s *Store) Groups() []interface{} {
	return lo.Map(s.groups, func(g Group, _ int) interface{} { return g })
}

// GroupsOf returns the groups a member belongs to.
func (s *Store) GroupsOf(m Member) []interface{} {
	groups := lo.Filter(s.groups, func(g Group, _ int) bool {
		return lo.Contains(m.GroupIDs, g.ID)
	})
	return lo.Map(groups, func(g Group, _ int) interface{} { return g })
}

// MembersOf returns the members belonging to a group.
func (s *Store) MembersOf(g Group) []interface{} {
	members := lo.Filter(s.members, func(m Member, _ int) bool {
		return lo.Contains(m.GroupIDs, g.ID)
	})
	return lo.Map(members, func(m Member, _ int) interface{} { return m })
}

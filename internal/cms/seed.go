package cms

// SeedStore returns a store with a small fixed content set, used by the
// demo server and by tests that need a populated schema.
func SeedStore() *Store {
	groups := []Group{
		{ID: "g1", Title: "Administrators", Code: "admins"},
		{ID: "g2", Title: "Content Authors", Code: "authors"},
		{ID: "g3", Title: "Subscribers", Code: "subscribers"},
	}
	members := []Member{
		{ID: "m1", FirstName: "Ada", Surname: "Lowell", Email: "ada@example.com", GroupIDs: []string{"g1", "g2"}},
		{ID: "m2", FirstName: "Brendan", Surname: "Keir", Email: "brendan@example.com", GroupIDs: []string{"g2"}},
		{ID: "m3", FirstName: "Chloe", Surname: "Marsh", Email: "chloe@example.com", GroupIDs: []string{"g2", "g3"}},
		{ID: "m4", FirstName: "Devi", Surname: "Anand", Email: "devi@example.com", GroupIDs: []string{"g3"}},
		{ID: "m5", FirstName: "Emil", Surname: "Novak", Email: "emil@example.com", GroupIDs: nil},
	}
	return NewStore(members, groups)
}

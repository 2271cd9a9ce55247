package cms

import (
	"context"
	"testing"

	"github.com/coralcms/coral/internal/config"
	"github.com/coralcms/coral/internal/schema"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSchema(t *testing.T) *graphql.Schema {
	t.Helper()

	cfg := &config.GraphQLConfig{
		Enabled:         true,
		DefaultPageSize: 100,
		MaxPageSize:     100,
	}

	registry := schema.NewRegistry()
	require.NoError(t, Register(registry, SeedStore(), cfg))

	built, err := registry.Schema()
	require.NoError(t, err)
	return built
}

func execute(t *testing.T, gqlSchema *graphql.Schema, query string) map[string]interface{} {
	t.Helper()

	result := graphql.Do(graphql.Params{
		Schema:        *gqlSchema,
		RequestString: query,
		Context:       context.Background(),
	})
	require.Empty(t, result.Errors)
	return result.Data.(map[string]interface{})
}

func TestRegister_MembersConnection(t *testing.T) {
	gqlSchema := buildSchema(t)

	t.Run("lists members with page info", func(t *testing.T) {
		data := execute(t, gqlSchema, `{
			members {
				edges { node { ID FirstName Email } }
				pageInfo { totalCount hasNextPage hasPreviousPage }
			}
		}`)

		conn := data["members"].(map[string]interface{})
		edges := conn["edges"].([]interface{})
		assert.Len(t, edges, 5)

		pageInfo := conn["pageInfo"].(map[string]interface{})
		assert.Equal(t, 5, pageInfo["totalCount"])
		assert.Equal(t, false, pageInfo["hasNextPage"])
	})

	t.Run("filters by email", func(t *testing.T) {
		data := execute(t, gqlSchema, `{
			members(Email: "chloe@example.com") {
				edges { node { FirstName } }
				pageInfo { totalCount }
			}
		}`)

		conn := data["members"].(map[string]interface{})
		edges := conn["edges"].([]interface{})
		require.Len(t, edges, 1)

		node := edges[0].(map[string]interface{})["node"].(map[string]interface{})
		assert.Equal(t, "Chloe", node["FirstName"])
	})

	t.Run("sorts by surname descending", func(t *testing.T) {
		data := execute(t, gqlSchema, `{
			members(limit: 1, sortBy: [{field: Surname, direction: DESC}]) {
				edges { node { Surname } }
			}
		}`)

		conn := data["members"].(map[string]interface{})
		edges := conn["edges"].([]interface{})
		require.Len(t, edges, 1)

		node := edges[0].(map[string]interface{})["node"].(map[string]interface{})
		assert.Equal(t, "Novak", node["Surname"])
	})
}

func TestRegister_NestedConnections(t *testing.T) {
	gqlSchema := buildSchema(t)

	t.Run("member groups resolve independently of the parent window", func(t *testing.T) {
		data := execute(t, gqlSchema, `{
			members(Email: "ada@example.com", limit: 1) {
				edges {
					node {
						FirstName
						groups(limit: 1, sortBy: [{field: Title, direction: ASC}]) {
							edges { node { Title } }
							pageInfo { totalCount hasNextPage }
						}
					}
				}
			}
		}`)

		memberEdges := data["members"].(map[string]interface{})["edges"].([]interface{})
		require.Len(t, memberEdges, 1)

		node := memberEdges[0].(map[string]interface{})["node"].(map[string]interface{})
		groups := node["groups"].(map[string]interface{})

		// Ada belongs to two groups; the child's own limit pages them
		// without being affected by the parent's limit of 1.
		pageInfo := groups["pageInfo"].(map[string]interface{})
		assert.Equal(t, 2, pageInfo["totalCount"])
		assert.Equal(t, true, pageInfo["hasNextPage"])

		groupEdges := groups["edges"].([]interface{})
		require.Len(t, groupEdges, 1)
		groupNode := groupEdges[0].(map[string]interface{})["node"].(map[string]interface{})
		assert.Equal(t, "Administrators", groupNode["Title"])
	})

	t.Run("group members traverse the reverse relation", func(t *testing.T) {
		data := execute(t, gqlSchema, `{
			groups(Code: "authors") {
				edges {
					node {
						Title
						members(sortBy: [{field: FirstName, direction: ASC}]) {
							edges { node { FirstName } }
							pageInfo { totalCount }
						}
					}
				}
			}
		}`)

		groupEdges := data["groups"].(map[string]interface{})["edges"].([]interface{})
		require.Len(t, groupEdges, 1)

		node := groupEdges[0].(map[string]interface{})["node"].(map[string]interface{})
		members := node["members"].(map[string]interface{})

		pageInfo := members["pageInfo"].(map[string]interface{})
		assert.Equal(t, 3, pageInfo["totalCount"])

		memberEdges := members["edges"].([]interface{})
		require.Len(t, memberEdges, 3)
		first := memberEdges[0].(map[string]interface{})["node"].(map[string]interface{})
		assert.Equal(t, "Ada", first["FirstName"])
	})
}

func TestStore_Relations(t *testing.T) {
	store := SeedStore()

	t.Run("groups of a member", func(t *testing.T) {
		member := Member{ID: "m1", GroupIDs: []string{"g1", "g3"}}
		groups := store.GroupsOf(member)
		require.Len(t, groups, 2)
		assert.Equal(t, "Administrators", groups[0].(Group).Title)
	})

	t.Run("members of a group", func(t *testing.T) {
		members := store.MembersOf(Group{ID: "g2"})
		assert.Len(t, members, 3)
	})

	t.Run("member without groups", func(t *testing.T) {
		assert.Empty(t, store.GroupsOf(Member{ID: "m5"}))
	})
}

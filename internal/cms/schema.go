package cms

import (
	"fmt"

	"github.com/coralcms/coral/internal/config"
	"github.com/coralcms/coral/internal/schema"
	"github.com/graphql-go/graphql"
)

// Register wires the member/group model into the registry: one object
// type per model, a root connection per model, and nested connections
// for the member<->group relation. Page size policy comes from the
// GraphQL configuration.
func Register(r *schema.Registry, store *Store, cfg *config.GraphQLConfig) error {
	memberGroups := schema.NewConnection("memberGroups").
		WithElementType(r.TypeRef("Group")).
		WithSortableFields("Title", "Code").
		WithDefaultLimit(cfg.DefaultPageSize).
		WithMaximumLimit(cfg.MaxPageSize).
		WithResolver(func(p graphql.ResolveParams) (schema.ListSource, error) {
			m, ok := p.Source.(Member)
			if !ok {
				return nil, fmt.Errorf("expected a member as parent node, got %T", p.Source)
			}
			return schema.NewSliceSource(store.GroupsOf(m)), nil
		})

	groupMembers := schema.NewConnection("groupMembers").
		WithElementType(r.TypeRef("Member")).
		WithSortableFields("FirstName", "Surname", "Email").
		WithDefaultLimit(cfg.DefaultPageSize).
		WithMaximumLimit(cfg.MaxPageSize).
		WithResolver(func(p graphql.ResolveParams) (schema.ListSource, error) {
			g, ok := p.Source.(Group)
			if !ok {
				return nil, fmt.Errorf("expected a group as parent node, got %T", p.Source)
			}
			return schema.NewSliceSource(store.MembersOf(g)), nil
		})

	// Nested connections never reach the registry's root validation, so
	// they are validated here, at registration time.
	for _, conn := range []*schema.Connection{memberGroups, groupMembers} {
		if err := conn.Validate(); err != nil {
			return err
		}
	}

	r.RegisterType(schema.TypeCreatorFunc{
		Name: "Member",
		Create: func(r *schema.Registry) (graphql.Type, error) {
			return graphql.NewObject(graphql.ObjectConfig{
				Name: "Member",
				Fields: graphql.FieldsThunk(func() graphql.Fields {
					return graphql.Fields{
						"ID":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
						"FirstName": &graphql.Field{Type: graphql.String},
						"Surname":   &graphql.Field{Type: graphql.String},
						"Email":     &graphql.Field{Type: graphql.String},
						"groups":    memberGroups.Field(),
					}
				}),
			}), nil
		},
	})

	r.RegisterType(schema.TypeCreatorFunc{
		Name: "Group",
		Create: func(r *schema.Registry) (graphql.Type, error) {
			return graphql.NewObject(graphql.ObjectConfig{
				Name: "Group",
				Fields: graphql.FieldsThunk(func() graphql.Fields {
					return graphql.Fields{
						"ID":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
						"Title":   &graphql.Field{Type: graphql.String},
						"Code":    &graphql.Field{Type: graphql.String},
						"members": groupMembers.Field(),
					}
				}),
			}), nil
		},
	})

	r.RegisterConnection(schema.NewConnection("members").
		WithElementType(r.TypeRef("Member")).
		WithArgs(graphql.FieldConfigArgument{
			"Email": &graphql.ArgumentConfig{Type: graphql.String},
		}).
		WithSortableFields("FirstName", "Surname", "Email").
		WithDefaultLimit(cfg.DefaultPageSize).
		WithMaximumLimit(cfg.MaxPageSize).
		WithResolver(func(p graphql.ResolveParams) (schema.ListSource, error) {
			return schema.NewSliceSource(store.Members()), nil
		}))

	r.RegisterConnection(schema.NewConnection("groups").
		WithElementType(r.TypeRef("Group")).
		WithArgs(graphql.FieldConfigArgument{
			"Code": &graphql.ArgumentConfig{Type: graphql.String},
		}).
		WithSortableFields("Title", "Code").
		WithDefaultLimit(cfg.DefaultPageSize).
		WithMaximumLimit(cfg.MaxPageSize).
		WithResolver(func(p graphql.ResolveParams) (schema.ListSource, error) {
			return schema.NewSliceSource(store.Groups()), nil
		}))

	return nil
}

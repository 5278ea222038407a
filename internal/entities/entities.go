// Package entities holds the per-entity configuration values. This is data,
// not engine logic: adding an entity here is the whole integration surface.
package entities

import (
	"database/sql"
	"strings"

	"backoffice/internal/metadata"
	"backoffice/internal/service"
)

// Factories supplies one adapter factory per entity.
type Factories struct {
	Articles     service.Factory
	Users        service.Factory
	SiteSettings service.Factory
}

// NewRESTFactories wires every entity to the backing HTTP service.
func NewRESTFactories(baseURL string) Factories {
	return Factories{
		Articles:     &service.RESTFactory{BaseURL: baseURL, BasePath: "/ts-admin/articles"},
		Users:        &service.RESTFactory{BaseURL: baseURL, BasePath: "/ts-admin/users"},
		SiteSettings: &service.RESTFactory{BaseURL: baseURL, BasePath: "/ts-admin/site_settings"},
	}
}

// NewLocalFactories wires every entity to the local SQLite driver.
func NewLocalFactories(db *sql.DB) (Factories, error) {
	articles, err := service.NewSQLiteFactory(db, "articles", "id", false)
	if err != nil {
		return Factories{}, err
	}
	users, err := service.NewSQLiteFactory(db, "users", "id", false)
	if err != nil {
		return Factories{}, err
	}
	settings, err := service.NewSQLiteFactory(db, "site_settings", "key", true)
	if err != nil {
		return Factories{}, err
	}
	return Factories{Articles: articles, Users: users, SiteSettings: settings}, nil
}

// Build returns all entity configurations bound to the given factories.
func Build(f Factories) []*metadata.Entity {
	return []*metadata.Entity{
		Articles(f.Articles),
		Users(f.Users),
		SiteSettings(f.SiteSettings),
	}
}

func Articles(svc service.Factory) *metadata.Entity {
	return &metadata.Entity{
		Name:         "articles",
		SingularName: "Article",
		PluralName:   "Articles",
		IDField:      "id",
		IDKind:       metadata.IDNumeric,
		Service:      svc,
		CanView:      true,
		CanCreate:    true,
		CanEdit:      true,
		CanDelete:    true,
		DisplayField: "title",
		OwnerField:   "authorId",
		Fields: []metadata.Field{
			{Name: "id", Label: "ID", Type: metadata.TypeNumber, Sortable: true, ShowInForm: metadata.Hidden()},
			{Name: "title", Label: "Title", Type: metadata.TypeString, Required: true, Sortable: true, Searchable: true},
			{
				Name: "slug", Label: "Slug", Type: metadata.TypeString, Required: true,
				Rule:        `not (value matches "^[a-z0-9]+(-[a-z0-9]+)*$")`,
				RuleMessage: "Slug may only contain lowercase letters, numbers and hyphens",
				HelpText:    "Used in the article URL",
			},
			{Name: "content", Label: "Content", Type: metadata.TypeText, Required: true, ShowInList: metadata.Hidden(), Rows: 10},
			{Name: "excerpt", Label: "Excerpt", Type: metadata.TypeText, ShowInList: metadata.Hidden()},
			{Name: "featuredImage", Label: "Featured Image", Type: metadata.TypeString, ShowInList: metadata.Hidden(), Placeholder: "https://..."},
			{
				Name: "status", Label: "Status", Type: metadata.TypeSelect, Required: true, Sortable: true,
				Options: []metadata.Option{
					{Value: "draft", Label: "Draft"},
					{Value: "published", Label: "Published"},
				},
			},
			{Name: "publishedAt", Label: "Published At", Type: metadata.TypeDateTime, ShowInList: metadata.Hidden()},
			{Name: "authorId", Label: "Author", Type: metadata.TypeNumber, ShowInForm: metadata.Hidden()},
			{Name: "createdAt", Label: "Created", Type: metadata.TypeDateTime, Sortable: true, ShowInForm: metadata.Hidden()},
			{Name: "updatedAt", Label: "Updated", Type: metadata.TypeDateTime, ShowInForm: metadata.Hidden(), ShowInList: metadata.Hidden()},
		},
	}
}

func Users(svc service.Factory) *metadata.Entity {
	return &metadata.Entity{
		Name:         "users",
		SingularName: "User",
		PluralName:   "Users",
		IDField:      "id",
		IDKind:       metadata.IDNumeric,
		Service:      svc,
		CanView:      true,
		CanCreate:    true,
		CanEdit:      true,
		CanDelete:    true,
		DisplayField: "name",
		Fields: []metadata.Field{
			{Name: "id", Label: "ID", Type: metadata.TypeNumber, Sortable: true, ShowInForm: metadata.Hidden()},
			{
				Name: "email", Label: "Email", Type: metadata.TypeEmail, Required: true, Searchable: true,
				Validate: func(v any) string {
					s, _ := v.(string)
					if !strings.Contains(s, "@") {
						return "Enter a valid email address"
					}
					return ""
				},
			},
			{Name: "name", Label: "Name", Type: metadata.TypeString, Required: true, Searchable: true},
			{
				Name: "role", Label: "Role", Type: metadata.TypeSelect, Required: true,
				Options: []metadata.Option{
					{Value: "admin", Label: "Admin"},
					{Value: "editor", Label: "Editor"},
					{Value: "viewer", Label: "Viewer"},
				},
			},
			{Name: "active", Label: "Active", Type: metadata.TypeBoolean, HelpText: "Inactive users cannot sign in"},
			{Name: "createdAt", Label: "Created", Type: metadata.TypeDateTime, Sortable: true, ShowInForm: metadata.Hidden()},
		},
	}
}

func SiteSettings(svc service.Factory) *metadata.Entity {
	return &metadata.Entity{
		Name:         "site-settings",
		SingularName: "Site Setting",
		PluralName:   "Site Settings",
		IDField:      "key",
		IDKind:       metadata.IDKey,
		Service:      svc,
		CanView:      true,
		CanCreate:    true,
		CanEdit:      true,
		CanDelete:    true,
		DisplayField: "key",
		DescriptionField: "description",
		GetRouteParam: func(record map[string]any) string {
			key, _ := record["key"].(string)
			return key
		},
		IsSystemRecord: func(record map[string]any) bool {
			system, _ := record["isSystem"].(bool)
			return system
		},
		Fields: []metadata.Field{
			{
				Name: "key", Label: "Key", Type: metadata.TypeString, Required: true, Sortable: true,
				Rule:        `not (value matches "^[a-z][a-z0-9_.]*$")`,
				RuleMessage: "Key must be lowercase dotted/underscored identifiers",
			},
			{Name: "value", Label: "Value", Type: metadata.TypeJSON, Required: true},
			{
				Name: "category", Label: "Category", Type: metadata.TypeSelect,
				Options: []metadata.Option{
					{Value: "general", Label: "General"},
					{Value: "seo", Label: "SEO"},
					{Value: "social", Label: "Social"},
					{Value: "advanced", Label: "Advanced"},
				},
			},
			{Name: "description", Label: "Description", Type: metadata.TypeText, ShowInList: metadata.Hidden()},
			{Name: "isSystem", Label: "System Setting", Type: metadata.TypeBoolean, HelpText: "System settings cannot be deleted"},
			{Name: "updatedAt", Label: "Updated", Type: metadata.TypeDateTime, ShowInForm: metadata.Hidden(), ShowInList: metadata.Hidden()},
		},
	}
}

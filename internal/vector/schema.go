package vector

import (
	"context"

	"github.com/weaviate/weaviate/entities/models"
)

// ClassDocumentChunk is the Weaviate class every ingested chunk lands in.
const ClassDocumentChunk = "DocumentChunk"

// SchemaClient is the subset of Weaviate schema operations EnsureSchema uses.
type SchemaClient interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, className string) (*models.Class, error)
	AddProperty(ctx context.Context, className string, property *models.Property) error
}

// EnsureSchema creates the DocumentChunk class if it is missing, and
// adds any properties that are missing from an existing class so older
// deployments pick up schema additions without manual migration.
func EnsureSchema(ctx context.Context, client SchemaClient) error {
	exists, err := client.ClassExists(ctx, ClassDocumentChunk)
	if err != nil {
		return err
	}

	properties := []*models.Property{
		{
			Name:     "content",
			DataType: []string{"text"},
		},
		{
			Name:     "title",
			DataType: []string{"text"},
		},
		{
			Name:     "summary",
			DataType: []string{"text"},
		},
		{
			Name:     "url",
			DataType: []string{"string"}, // exact match for delete-by-url
		},
		{
			Name:     "source",
			DataType: []string{"string"}, // exact match for search filtering
		},
	}

	if !exists {
		class := &models.Class{
			Class:       ClassDocumentChunk,
			Description: "An embedded chunk of a watched document",
			Vectorizer:  "none",
			Properties:  properties,
		}
		return client.CreateClass(ctx, class)
	}

	class, err := client.GetClass(ctx, ClassDocumentChunk)
	if err != nil {
		return err
	}

	existing := make(map[string]bool)
	for _, p := range class.Properties {
		existing[p.Name] = true
	}

	for _, p := range properties {
		if !existing[p.Name] {
			if err := client.AddProperty(ctx, ClassDocumentChunk, p); err != nil {
				return err
			}
		}
	}

	return nil
}

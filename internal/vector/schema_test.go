package vector

import (
	"context"
	"testing"

	"github.com/weaviate/weaviate/entities/models"
)

type MockSchemaClient struct {
	CreatedClass    *models.Class
	ExistingClass   *models.Class
	AddedProperties []*models.Property
}

func (m *MockSchemaClient) ClassExists(ctx context.Context, className string) (bool, error) {
	return m.ExistingClass != nil, nil
}

func (m *MockSchemaClient) CreateClass(ctx context.Context, class *models.Class) error {
	m.CreatedClass = class
	return nil
}

func (m *MockSchemaClient) GetClass(ctx context.Context, className string) (*models.Class, error) {
	return m.ExistingClass, nil
}

func (m *MockSchemaClient) AddProperty(ctx context.Context, className string, property *models.Property) error {
	m.AddedProperties = append(m.AddedProperties, property)
	return nil
}

func TestEnsureSchema_CreatesClass(t *testing.T) {
	client := &MockSchemaClient{}
	if err := EnsureSchema(context.Background(), client); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	if client.CreatedClass == nil {
		t.Fatal("Class not created")
	}
	if client.CreatedClass.Class != ClassDocumentChunk {
		t.Errorf("unexpected class name %q", client.CreatedClass.Class)
	}
	if client.CreatedClass.Vectorizer != "none" {
		t.Errorf("expected vectorizer none, got %q", client.CreatedClass.Vectorizer)
	}

	expectedProps := map[string]string{
		"content": "text",
		"title":   "text",
		"summary": "text",
		"url":     "string",
		"source":  "string",
	}

	if len(client.CreatedClass.Properties) != len(expectedProps) {
		t.Errorf("expected %d properties, got %d", len(expectedProps), len(client.CreatedClass.Properties))
	}
	for _, prop := range client.CreatedClass.Properties {
		expectedType, ok := expectedProps[prop.Name]
		if !ok {
			t.Errorf("unexpected property %s", prop.Name)
			continue
		}
		if len(prop.DataType) == 0 || prop.DataType[0] != expectedType {
			t.Errorf("property %s has wrong DataType: %v (expected %s)", prop.Name, prop.DataType, expectedType)
		}
	}
}

func TestEnsureSchema_AddsMissingProperties(t *testing.T) {
	existingClass := &models.Class{
		Class: ClassDocumentChunk,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "url", DataType: []string{"string"}},
		},
	}

	client := &MockSchemaClient{ExistingClass: existingClass}

	if err := EnsureSchema(context.Background(), client); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	if client.CreatedClass != nil {
		t.Error("class should not be recreated")
	}

	added := make(map[string]bool)
	for _, p := range client.AddedProperties {
		added[p.Name] = true
	}
	for _, want := range []string{"title", "summary", "source"} {
		if !added[want] {
			t.Errorf("missing property %s was not added", want)
		}
	}
	if added["content"] || added["url"] {
		t.Error("existing properties must not be re-added")
	}
}

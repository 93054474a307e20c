package rest

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
)

// APIDocument is the parsed and validated OpenAPI description served at /openapi.yml.
type APIDocument struct {
	Doc *openapi3.T
	raw  []byte
}

// LoadAPIDocument reads the OpenAPI file at path and rejects it if it does not validate.
func LoadAPIDocument(ctx context.Context, path string) (*APIDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read openapi document: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	return &APIDocument{Doc: doc, raw: raw}, nil
}

// Documents reports whether method and path (relative to the server base) are described.
func (d *APIDocument) Documents(method, path string) bool {
	item := d.Doc.Paths.Find(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}

func (d *APIDocument) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.raw)
}

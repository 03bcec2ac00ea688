package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

const SpecRoute = "/openapi.yml"

// Handler serves Swagger UI pointed at the document served on SpecRoute.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecRoute),
	)
}

// LoadSpec parses and validates the OpenAPI document so a broken spec fails
// at startup rather than in the browser.
func LoadSpec(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi spec %s: %w", path, err)
	}
	return doc, nil
}

// SpecHandler serves the OpenAPI file as is.
func SpecHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		http.ServeFile(w, r, path)
	}
}

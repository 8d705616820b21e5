// Package web embeds the static assets served by the API.
package web

import (
	_ "embed"
)

//go:embed openapi.json
var openAPI []byte

// OpenAPI returns the embedded OpenAPI document served at /swagger/doc.json
func OpenAPI() []byte {
	return openAPI
}

// Package api carries the OpenAPI document of the storefront HTTP API.
package api

import (
	_ "embed"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config=oapi-codegen.yaml openapi.yaml

// OpenAPI is the raw OpenAPI 3 document served at /openapi.yaml and used for
// request validation.
//
//go:embed openapi.yaml
var OpenAPI []byte

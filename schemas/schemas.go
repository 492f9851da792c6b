// Package schemas embeds the JSON Schemas that record payloads must satisfy.
package schemas

import "embed"

//go:embed records
var SchemasFS embed.FS

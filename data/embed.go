// Package data provides the embedded default catalog.
package data

import _ "embed"

// Products contains the catalog shipped with the binary, used when no
// external catalog source is configured or the configured one fails.
//
//go:embed products.json
var Products []byte

// Package catalog loads the embedded product catalog.
package catalog

import _ "embed"

// packed is the gzip-compressed product catalog, produced by
// cmd/catalog-pack from data/catalog.json.
//
//go:embed data/catalog.json.gz
var packed []byte

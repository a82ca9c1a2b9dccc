// Package loader registers the token store drivers via blank imports.
//
// Usage in main.go:
//
//	import _ "github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore/loader"
package loader

import (
	// Register the in-process driver
	_ "github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore/memory"

	// Register the JSON file driver
	_ "github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore/json"

	// Register the SQLite driver
	_ "github.com/MahdiBaghbani/fieldscout-go/internal/tokenstore/sqlite"
)

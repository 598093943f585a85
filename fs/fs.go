// Package appfs exposes the application's embedded static files.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS

// Package appfs exposes the app's embedded static files:
// database migrations and the lesson/challenge catalogs.
package appfs

import "embed"

//go:embed migrations assets
var FS embed.FS

package pubadmin

import "embed"

// EmbeddedAssets contains the stylesheet and the editor glue script served
// under /admin/assets/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

package web

import (
	"embed"
)

// staticFiles holds the inspector page served at /.
//
//go:embed static/*
var staticFiles embed.FS

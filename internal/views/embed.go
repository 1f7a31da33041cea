// Package views holds the HTML templates rendered by the fiber html engine.
package views

import "embed"

//go:embed *.html pages/*.html partials/*.html
var FS embed.FS

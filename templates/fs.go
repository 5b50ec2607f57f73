// Package templates embeds the default client templates.
package templates

import "embed"

//go:embed *.tmpl
var FS embed.FS

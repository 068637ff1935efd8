package report

import "embed"

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

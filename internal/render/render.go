// Package render writes a History in the supported report formats.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mtlprog/hindsight/internal/domain"
)

// Renderer writes one report format.
type Renderer interface {
	Render(w io.Writer, h domain.History) error
}

// Formats lists the names accepted by ForFormat.
var Formats = []string{"markdown", "json", "xlsx"}

// ForFormat returns the renderer for a format name. styled enables terminal
// styling where the format supports it.
func ForFormat(name string, styled bool) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return Markdown{Styled: styled}, nil
	case "json":
		return JSON{Indent: "  "}, nil
	case "xlsx", "excel":
		return XLSX{}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
}

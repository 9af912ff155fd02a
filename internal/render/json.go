package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mtlprog/hindsight/internal/domain"
)

// JSON writes the History as a JSON document. Decimals are encoded as strings.
type JSON struct {
	Indent string
}

func (r JSON) Render(w io.Writer, h domain.History) error {
	if h.Points == nil {
		h.Points = []domain.ValuePoint{}
	}
	enc := json.NewEncoder(w)
	if r.Indent != "" {
		enc.SetIndent("", r.Indent)
	}
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return nil
}

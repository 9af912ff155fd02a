package render

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"

	"github.com/mtlprog/hindsight/internal/domain"
)

const wordWrap = 100

// Markdown writes a human-readable report. When Styled is set the document
// is rendered for the terminal with glamour.
type Markdown struct {
	Styled bool
}

func (r Markdown) Render(w io.Writer, h domain.History) error {
	doc := markdownDocument(h)

	if r.Styled {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrap),
		)
		if err != nil {
			return fmt.Errorf("creating terminal renderer: %w", err)
		}
		styled, err := tr.Render(doc)
		if err != nil {
			return fmt.Errorf("styling report: %w", err)
		}
		doc = styled
	}

	if _, err := io.WriteString(w, doc); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func markdownDocument(h domain.History) string {
	quote := h.Quote.Code
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio history of %s", domain.ShortAccountID(h.Account)))
	doc.PlainText(fmt.Sprintf("Account `%s` valued in %s from %s to %s.",
		h.Account, quote, h.From.Format(time.DateOnly), h.To.Format(time.DateOnly)))

	if len(h.Points) == 0 {
		doc.PlainText("No holding has trade history against the quote asset in this window.")
	} else {
		first, last := h.Points[0], h.Points[len(h.Points)-1]
		change := last.Value.Sub(first.Value)

		doc.BulletList(
			fmt.Sprintf("%s %s (%s)", md.Bold("Latest value:"), formatMoney(last.Value, quote), last.Date().Format(time.DateOnly)),
			fmt.Sprintf("%s %s since %s", md.Bold("Change:"), signed(formatMoney(change, quote), change.IsPositive()), first.Date().Format(time.DateOnly)),
			fmt.Sprintf("%s %s", md.Bold(quote+" held directly:"), formatMoney(h.Baseline, quote)),
		)

		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
			},
			Header: []string{"Date", fmt.Sprintf("Value (%s)", quote)},
			Rows:   [][]string{},
		}
		for _, p := range h.Points {
			table.Rows = append(table.Rows, []string{
				p.Date().Format(time.DateOnly),
				formatMoney(p.Value, quote),
			})
		}
		doc.Table(table)
	}

	if len(h.Skipped) > 0 {
		doc.H2("Not valued")
		items := make([]string, 0, len(h.Skipped))
		for _, s := range h.Skipped {
			items = append(items, fmt.Sprintf("%s (%s): %s", s.Asset, domain.FormatAmount(s.Balance), s.Reason))
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

func signed(s string, positive bool) string {
	if positive {
		return "+" + s
	}
	return s
}

// Package diff computes the content diff between two prompt revisions
// and the metrics derived from it.
package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result carries the diff between two text blobs. DiffHTML is a
// presentation contract: unchanged spans pass through as plain text,
// inserted spans are wrapped in span.diff-added, deleted spans in
// span.diff-deleted. Callers depend on the exact wrapping.
type Result struct {
	Additions  int     `json:"additions"`
	Deletions  int     `json:"deletions"`
	ChangeRate float64 `json:"change_rate"`
	DiffHTML   string  `json:"diff_html"`
}

// Compare diffs source against target, coalescing noisy edits with a
// semantic cleanup pass. Counts are in characters, not bytes.
// ChangeRate is a percentage of total characters touched and can
// exceed 100 when a change both deletes and inserts heavily.
func Compare(source, target string) Result {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(source, target, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var additions, deletions int
	var html strings.Builder

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			additions += utf8.RuneCountInString(d.Text)
			html.WriteString(`<span class="diff-added">`)
			html.WriteString(d.Text)
			html.WriteString(`</span>`)
		case diffmatchpatch.DiffDelete:
			deletions += utf8.RuneCountInString(d.Text)
			html.WriteString(`<span class="diff-deleted">`)
			html.WriteString(d.Text)
			html.WriteString(`</span>`)
		default:
			html.WriteString(d.Text)
		}
	}

	total := utf8.RuneCountInString(source) + utf8.RuneCountInString(target)
	if total < 1 {
		total = 1
	}

	return Result{
		Additions:  additions,
		Deletions:  deletions,
		ChangeRate: float64(additions+deletions) / float64(total) * 100,
		DiffHTML:   html.String(),
	}
}

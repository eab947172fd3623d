package paginate

import (
	"fmt"
	"strings"
)

// capacityEpsilon absorbs float rounding when comparing summed heights
const capacityEpsilon = 1e-6

// VerifyError lists every pagination invariant a layout breaks.
type VerifyError struct {
	Violations []string
}

func (e *VerifyError) Error() string {
	var sb strings.Builder
	sb.WriteString("pagination invariants violated:\n")
	for i, v := range e.Violations {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, v))
	}
	return sb.String()
}

// Verify checks pages produced from sections against the pagination invariants:
// at least one page, every section placed exactly once and in order, and no page over
// capacity unless it holds a single oversized section.
func Verify(pages []Page, sections []SectionMeasurement, opts Options) error {
	var violations []string
	if len(pages) == 0 {
		violations = append(violations, "layout has no pages")
	}

	byID := make(map[string]SectionMeasurement, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}

	seen := make(map[string]int)
	var flat []string
	for pi, p := range pages {
		if p.Index != pi {
			violations = append(violations, fmt.Sprintf("page %d carries index %d", pi, p.Index))
		}
		used := 0.0
		if pi == 0 {
			used = opts.FirstPageHeaderHeight
		}
		for i, id := range p.SectionIDs {
			if prev, dup := seen[id]; dup {
				violations = append(violations, fmt.Sprintf("section %q appears on pages %d and %d", id, prev, pi))
			}
			seen[id] = pi
			flat = append(flat, id)

			m, ok := byID[id]
			if !ok {
				violations = append(violations, fmt.Sprintf("page %d holds unknown section %q", pi, id))
				continue
			}
			used += m.Height
			if i > 0 {
				used += m.CollapsedMargin
			}
		}
		overflowAllowed := len(p.SectionIDs) == 1
		if !overflowAllowed && used+opts.BottomMarginReserve > opts.ContentHeight+capacityEpsilon {
			violations = append(violations, fmt.Sprintf("page %d uses %.2f + reserve %.2f of %.2f",
				pi, used, opts.BottomMarginReserve, opts.ContentHeight))
		}
	}

	if len(flat) != len(sections) {
		violations = append(violations, fmt.Sprintf("%d sections placed, %d measured", len(flat), len(sections)))
	} else {
		for i := range flat {
			if flat[i] != sections[i].ID {
				violations = append(violations, fmt.Sprintf("position %d holds %q, want %q", i, flat[i], sections[i].ID))
				break
			}
		}
	}

	if len(violations) > 0 {
		return &VerifyError{Violations: violations}
	}
	return nil
}

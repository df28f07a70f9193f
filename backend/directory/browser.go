package directory

// Browser is one visitor's directory session. Every change to the criteria
// or to the candidate collection recomputes the matches and moves back to
// page 1 before the next View.
//
// A Browser is not safe for concurrent use.
type Browser struct {
	candidates []Candidate
	criteria   Criteria
	matched    []Candidate
	page       int
}

func NewBrowser(candidates []Candidate) *Browser {
	b := &Browser{candidates: candidates, criteria: DefaultCriteria()}
	b.recompute()
	return b
}

// SetCriteria normalizes and validates c. Invalid criteria leave the session
// untouched.
func (b *Browser) SetCriteria(c Criteria) error {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return err
	}
	b.criteria = c
	b.recompute()
	return nil
}

// SetCandidates swaps the underlying collection.
func (b *Browser) SetCandidates(candidates []Candidate) {
	b.candidates = candidates
	b.recompute()
}

// Reset restores the default criteria.
func (b *Browser) Reset() {
	b.criteria = DefaultCriteria()
	b.recompute()
}

func (b *Browser) recompute() {
	b.matched = Filter(b.candidates, b.criteria)
	b.page = 1
}

// GoTo moves to page, clamped to the available pages, and returns the page
// actually selected.
func (b *Browser) GoTo(page int) int {
	b.page = ClampPage(page, TotalPages(len(b.matched)))
	return b.page
}

func (b *Browser) Next() int { return b.GoTo(b.page + 1) }

func (b *Browser) Prev() int { return b.GoTo(b.page - 1) }

func (b *Browser) Criteria() Criteria { return b.criteria }

func (b *Browser) Page() int { return b.page }

func (b *Browser) View() View {
	return newView(b.matched, b.criteria, b.page)
}

package directory

// PageSize is the number of candidates shown per directory page.
const PageSize = 6

// pageWindowRadius is how many page buttons are shown on each side of the
// current page, besides the first and last page.
const pageWindowRadius = 2

// TotalPages is ceil(n/PageSize); zero when nothing matched.
func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the items at offsets [(page-1)*PageSize, page*PageSize).
// Pages outside the result yield an empty slice.
func Paginate(items []Candidate, page int) []Candidate {
	if page < 1 || page > TotalPages(len(items)) {
		return []Candidate{}
	}
	start := (page - 1) * PageSize
	end := min(start+PageSize, len(items))
	return items[start:end]
}

// ClampPage pins page into [1, max(1,totalPages)].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageWindow lists the page buttons to render: the first and last page plus
// the pages within two of the current one.
func PageWindow(current, totalPages int) []int {
	pages := make([]int, 0, 2*pageWindowRadius+3)
	for p := 1; p <= totalPages; p++ {
		if p == 1 || p == totalPages || (p >= current-pageWindowRadius && p <= current+pageWindowRadius) {
			pages = append(pages, p)
		}
	}
	return pages
}

// View is one rendered page of the directory.
type View struct {
	Criteria   Criteria    `json:"criteria"`
	Items      []Candidate `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	Pages      []int       `json:"pages"`
	HasPrev    bool        `json:"has_prev"`
	HasNext    bool        `json:"has_next"`
	// Empty asks the caller to render the empty-state message and the
	// reset action.
	Empty bool `json:"empty"`
	// ShowPager is false when everything fits on one page.
	ShowPager bool `json:"show_pager"`
}

// Query filters candidates by c and returns the requested page, clamped into
// the result.
func Query(candidates []Candidate, c Criteria, page int) View {
	return newView(Filter(candidates, c), c, page)
}

func newView(matched []Candidate, c Criteria, page int) View {
	total := TotalPages(len(matched))
	page = ClampPage(page, total)
	return View{
		Criteria:   c,
		Items:      Paginate(matched, page),
		Total:      len(matched),
		Page:       page,
		PageSize:   PageSize,
		TotalPages: total,
		Pages:      PageWindow(page, total),
		HasPrev:    page > 1,
		HasNext:    page < total,
		Empty:      len(matched) == 0,
		ShowPager:  len(matched) > PageSize,
	}
}

// Package pagination holds the pure page math: offsets, page-existence
// flags, and the visible-page-number sequence with ellipsis collapsing
// for pager UI controls.
package pagination

// Ellipsis marks a collapsed run of hidden pages in a page-number
// sequence.
const Ellipsis = -1

// DefaultMaxVisible is the page-number budget used by the pager UI.
const DefaultMaxVisible = 7

// Metadata describes one page of a result set. StartIndex and EndIndex
// are 1-indexed for display and meaningless when TotalCount is zero;
// Offset is the 0-indexed skip for the data fetch.
type Metadata struct {
	TotalCount      int64 `json:"total_count"`
	TotalPages      int   `json:"total_pages"`
	CurrentPage     int   `json:"current_page"`
	PageSize        int   `json:"page_size"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
	StartIndex      int   `json:"start_index"`
	EndIndex        int   `json:"end_index"`
	Offset          int   `json:"offset"`
}

// Calculate derives page metadata from a total count, requested page,
// and page size. An empty result set has zero total pages, not one; an
// out-of-range requested page clamps into [1, totalPages] (or 1 when
// there are no pages at all).
func Calculate(totalCount int64, currentPage, pageSize int) Metadata {
	if pageSize < 1 {
		pageSize = 1
	}
	if totalCount < 0 {
		totalCount = 0
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))

	if currentPage < 1 {
		currentPage = 1
	}
	if totalPages > 0 && currentPage > totalPages {
		currentPage = totalPages
	}

	m := Metadata{
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		CurrentPage:     currentPage,
		PageSize:        pageSize,
		HasNextPage:     currentPage < totalPages,
		HasPreviousPage: currentPage > 1,
		Offset:          (currentPage - 1) * pageSize,
	}
	if totalCount > 0 {
		m.StartIndex = (currentPage-1)*pageSize + 1
		m.EndIndex = currentPage * pageSize
		if int64(m.EndIndex) > totalCount {
			m.EndIndex = int(totalCount)
		}
	}
	return m
}

// PageNumbers produces the visible page sequence for a pager, using
// Ellipsis to collapse hidden runs. The first and last page are always
// shown once the count exceeds maxVisible; a run of exactly one hidden
// page is shown as that page rather than an ellipsis.
func PageNumbers(currentPage, totalPages, maxVisible int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	if maxVisible < 5 {
		maxVisible = 5
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	if totalPages <= maxVisible {
		pages := make([]int, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			pages = append(pages, p)
		}
		return pages
	}

	// Pick the contiguous window of interior pages around currentPage.
	var windowStart, windowEnd int
	switch {
	case currentPage < maxVisible-2:
		// Near the start: 1..maxVisible-1, then a gap before the last page.
		windowStart, windowEnd = 1, maxVisible-1
	case currentPage > totalPages-maxVisible+3:
		// Near the end: a gap after page 1, then the trailing window.
		windowStart, windowEnd = totalPages-maxVisible+2, totalPages
	default:
		width := maxVisible - 2
		half := width / 2
		windowStart = currentPage - half
		windowEnd = windowStart + width - 1
	}
	if windowStart < 1 {
		windowStart = 1
	}
	if windowEnd > totalPages {
		windowEnd = totalPages
	}

	pages := make([]int, 0, maxVisible+2)
	if windowStart > 1 {
		pages = append(pages, 1)
		pages = appendGap(pages, 1, windowStart)
	}
	for p := windowStart; p <= windowEnd; p++ {
		pages = append(pages, p)
	}
	if windowEnd < totalPages {
		pages = appendGap(pages, windowEnd, totalPages)
		pages = append(pages, totalPages)
	}
	return pages
}

// appendGap collapses the run between two shown pages. A single hidden
// page is shown directly; longer runs become one Ellipsis.
func appendGap(pages []int, before, after int) []int {
	hidden := after - before - 1
	switch {
	case hidden == 1:
		return append(pages, before+1)
	case hidden > 1:
		return append(pages, Ellipsis)
	}
	return pages
}

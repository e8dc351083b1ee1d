package table

// DefaultPageSizes is the page-size option set used when none is configured.
func DefaultPageSizes() []int {
	return []int{5, 10, 25}
}

// DefaultRowsPerPage is the initial page size.
const DefaultRowsPerPage = 25

// PageCount returns the number of pages needed for total rows. An empty
// table still has one (empty) page.
func PageCount(total, rowsPerPage int) int {
	if rowsPerPage <= 0 || total <= 0 {
		return 1
	}
	return (total + rowsPerPage - 1) / rowsPerPage
}

// LastPage returns the zero-based index of the last page.
func LastPage(total, rowsPerPage int) int {
	return PageCount(total, rowsPerPage) - 1
}

// PageBounds returns the half-open slice bounds of page within total rows.
// Pages past the end yield an empty range at total.
func PageBounds(total, page, rowsPerPage int) (start, end int) {
	if rowsPerPage <= 0 || page < 0 {
		return 0, 0
	}
	start = min(page*rowsPerPage, total)
	end = min(start+rowsPerPage, total)
	return start, end
}

// EmptyRows returns the number of filler rows that keep the table height
// stable on a short trailing page. The first page is never padded.
func EmptyRows(total, page, rowsPerPage int) int {
	if page <= 0 {
		return 0
	}
	return max(0, (page+1)*rowsPerPage-total)
}

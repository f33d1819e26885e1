package rocketdb

// Ellipsis marks a gap between page numbers in the result of PaginationRange.
const Ellipsis = -1

// DefaultPaginationDelta is the number of pages shown on each side of the current one.
const DefaultPaginationDelta = 3

// PaginationRange returns the page numbers to render for a listing on page current of total.
// Pages within delta of current are listed; the first and last pages are always reachable, with
// Ellipsis standing in for the pages between them and the window.
//
// For current 6 of 20 with delta 3 the result is [1 … 3 4 5 6 7 8 9 … 20].
func PaginationRange(current, total, delta int) []int {
	pages := []int{}

	start := 1
	if current-delta > 2 {
		pages = append(pages, 1, Ellipsis)
		start = current - delta
	}

	end := total
	if current+delta < total-1 {
		end = current + delta
	}

	for page := start; page <= end; page++ {
		pages = append(pages, page)
	}

	if end < total {
		pages = append(pages, Ellipsis, total)
	}
	return pages
}

// PageCount returns the number of pages needed to show n items size at a time.
func PageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

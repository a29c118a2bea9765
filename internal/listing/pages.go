package listing

// MaxPageLinks is the number of page links shown around the current page.
const MaxPageLinks = 5

// PageWindow returns at most maxLinks consecutive page numbers containing current,
// centred on it where the bounds allow. It is empty when there are no pages.
func PageWindow(current, totalPages, maxLinks int) []int {
	if totalPages <= 0 || maxLinks <= 0 {
		return []int{}
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start, end := 1, totalPages
	if totalPages > maxLinks {
		side := maxLinks / 2
		start = current - side
		if start < 1 {
			start = 1
		}
		end = start + maxLinks - 1
		if end > totalPages {
			end = totalPages
			start = end - maxLinks + 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

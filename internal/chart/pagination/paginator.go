// Package pagination keeps the cursor over a fixed-size list of records.
package pagination

import "workflow-runchart/pkg/common"

// Paginator tracks the start of the visible window. The cursor always stays within
// [0, max(0, total-pageSize)].
type Paginator struct {
	cursor   int
	pageSize int
	total    int
}

// New returns a paginator positioned on the most recent page.
func New(total, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	p := &Paginator{pageSize: pageSize, total: total}
	p.cursor = p.maxCursor()
	return p
}

// Cursor returns the index of the first visible record.
func (p *Paginator) Cursor() int { return p.cursor }

// PageSize returns the window length.
func (p *Paginator) PageSize() int { return p.pageSize }

// Total returns the number of records being paged.
func (p *Paginator) Total() int { return p.total }

// Forward moves one page towards newer records. It is a no-op on the last page.
func (p *Paginator) Forward() {
	if !p.CanForward() {
		return
	}
	p.cursor = min(p.cursor+p.pageSize, p.total-p.pageSize)
}

// Backward moves one page towards older records. It is a no-op on the first page.
func (p *Paginator) Backward() {
	if !p.CanBackward() {
		return
	}
	p.cursor = max(p.cursor-p.pageSize, 0)
}

// Seek moves the cursor to n, clamped into the valid range.
func (p *Paginator) Seek(n int) {
	p.cursor = min(max(n, 0), p.maxCursor())
}

// Window returns the half-open range [start, end) of visible records.
func (p *Paginator) Window() (start, end int) {
	return p.cursor, min(p.cursor+p.pageSize, p.total)
}

// CanBackward reports whether an older page exists.
func (p *Paginator) CanBackward() bool {
	return p.cursor > 0
}

// CanForward reports whether a newer page exists.
func (p *Paginator) CanForward() bool {
	return p.cursor+p.pageSize < p.total
}

func (p *Paginator) maxCursor() int {
	return max(0, p.total-p.pageSize)
}

package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNegativeTotal = errors.New("dashboard: transaction total is negative")

// Route bounds. Anything above them is treated like a malformed route.
const (
	MaxPerPage = 1000
	MaxPage    = 1_000_000
)

// Route is the /dashboard/{perPage}/{page} pair.
type Route struct {
	PerPage int
	Page    int
}

func (r Route) Path() string { return pagePath(r.PerPage, r.Page) }

func pagePath(perPage, page int) string {
	return fmt.Sprintf("/dashboard/%d/%d", perPage, page)
}

// ParseRoute reads the path values of the paginated dashboard. Anything that
// is not an integer in 1..MaxPerPage and 1..MaxPage sends the browser to
// DefaultRoute.
func ParseRoute(perPage, page string) (Route, error) {
	pp, errPP := strconv.Atoi(strings.TrimSpace(perPage))
	p, errP := strconv.Atoi(strings.TrimSpace(page))
	if errPP != nil || errP != nil || pp < 1 || p < 1 || pp > MaxPerPage || p > MaxPage {
		return Route{}, &Redirect{To: DefaultRoute, Reason: ReasonBadRoute}
	}
	return Route{PerPage: pp, Page: p}, nil
}

type SlotKind int

const (
	SlotPrev SlotKind = iota
	SlotEllipsis
	SlotLink
	SlotCurrent
	SlotNext
)

func (k SlotKind) String() string {
	switch k {
	case SlotPrev:
		return "prev"
	case SlotEllipsis:
		return "ellipsis"
	case SlotLink:
		return "link"
	case SlotCurrent:
		return "current"
	case SlotNext:
		return "next"
	}
	return "unknown"
}

// Slot is one control of the page selector. Href is empty for slots that do
// not navigate.
type Slot struct {
	Kind     SlotKind
	Page     int
	Href     string
	Disabled bool
}

type Pagination struct {
	Current    int
	PerPage    int
	TotalItems int64
	TotalPages int
	Slots      []Slot
}

// Paginate lays out at most seven slots around current:
// prev, …, current-1, current, current+1, …, next.
func Paginate(current, perPage int, totalItems int64) (Pagination, error) {
	if totalItems < 0 {
		return Pagination{}, ErrNegativeTotal
	}
	if perPage < 1 {
		return Pagination{}, fmt.Errorf("dashboard: per page must be positive, got %d", perPage)
	}
	if current < 1 {
		return Pagination{}, fmt.Errorf("dashboard: page must be positive, got %d", current)
	}
	pages := totalItems / int64(perPage)
	if totalItems%int64(perPage) != 0 {
		pages++
	}
	totalPages := int(pages)

	p := Pagination{
		Current:    current,
		PerPage:    perPage,
		TotalItems: totalItems,
		TotalPages: totalPages,
		Slots:      make([]Slot, 0, 7),
	}

	prev := Slot{Kind: SlotPrev, Disabled: true}
	if current > 1 {
		prev = Slot{Kind: SlotPrev, Page: current - 1, Href: pagePath(perPage, current-1)}
	}
	p.Slots = append(p.Slots, prev)

	if current > 2 {
		p.Slots = append(p.Slots, Slot{Kind: SlotEllipsis})
	}
	if current > 1 {
		p.Slots = append(p.Slots, Slot{Kind: SlotLink, Page: current - 1, Href: pagePath(perPage, current-1)})
	}
	p.Slots = append(p.Slots, Slot{Kind: SlotCurrent, Page: current})
	// Compared without adding to current, which may be any int.
	if current < totalPages {
		p.Slots = append(p.Slots, Slot{Kind: SlotLink, Page: current + 1, Href: pagePath(perPage, current+1)})
	}
	if current < totalPages-1 {
		p.Slots = append(p.Slots, Slot{Kind: SlotEllipsis})
	}

	// No page lies beyond the last one, nor beyond an empty list.
	next := Slot{Kind: SlotNext, Disabled: true}
	if current < totalPages {
		next = Slot{Kind: SlotNext, Page: current + 1, Href: pagePath(perPage, current+1)}
	}
	p.Slots = append(p.Slots, next)

	return p, nil
}

// Has reports whether a slot of kind k is present.
func (p Pagination) Has(k SlotKind) bool {
	for _, s := range p.Slots {
		if s.Kind == k {
			return true
		}
	}
	return false
}

// PageWindow returns the items shown on page of size perPage.
func PageWindow[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage < 1 {
		return nil
	}
	if len(items) == 0 || page-1 > (len(items)-1)/perPage {
		return nil
	}
	start := (page - 1) * perPage
	end := len(items)
	if end-start > perPage {
		end = start + perPage
	}
	return items[start:end]
}

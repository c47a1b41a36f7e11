package admin

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/openadm/restadmin/internal/database"
	"github.com/openadm/restadmin/internal/errs"
)

// Limits bounds list-request page sizes.
type Limits struct {
	DefaultPerPage int
	MaxPerPage     int
}

// DefaultLimits mirrors what the admin frontend requests out of the box.
func DefaultLimits() Limits {
	return Limits{DefaultPerPage: 50, MaxPerPage: 1000}
}

// QuerySpec is the resolved form of a list request's query parameters:
// pagination offsets, sort order, and filter predicates. Built fresh per
// request and discarded after use.
type QuerySpec struct {
	Offset     int
	Limit      int
	SortField  string
	SortDir    database.SortDirection
	Predicates []Predicate
}

// ParseQuery resolves the admin frontend's list parameters against a table.
//
// Pagination comes from _page/_perPage or raw _offset/_limit; _perPage is
// clamped to limits.MaxPerPage. Sort comes from _sortField/_sortDir and
// defaults to the primary key ascending. Filters come from the _filters
// JSON parameter. Unknown sort or filter fields fail with an invalid-input
// error before any query executes.
func ParseQuery(values url.Values, table *database.TableInfo, pk string, limits Limits) (*QuerySpec, error) {
	if limits.DefaultPerPage <= 0 {
		limits.DefaultPerPage = DefaultLimits().DefaultPerPage
	}
	if limits.MaxPerPage <= 0 {
		limits.MaxPerPage = DefaultLimits().MaxPerPage
	}

	perPage := limits.DefaultPerPage
	if raw := values.Get("_perPage"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("invalid _perPage value: %q", raw))
		}
		perPage = n
	}
	if perPage > limits.MaxPerPage {
		perPage = limits.MaxPerPage
	}

	offset := 0
	if raw := values.Get("_page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("invalid _page value: %q", raw))
		}
		offset = (page - 1) * perPage
	}

	// Raw offset/limit take precedence when supplied.
	if raw := values.Get("_offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("invalid _offset value: %q", raw))
		}
		offset = n
	}
	if raw := values.Get("_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("invalid _limit value: %q", raw))
		}
		perPage = n
		if perPage > limits.MaxPerPage {
			perPage = limits.MaxPerPage
		}
	}

	sortField := pk
	if raw := values.Get("_sortField"); raw != "" {
		sortField = raw
	}
	if !table.HasColumn(sortField) {
		return nil, errs.New(errs.ErrKindInvalidInput,
			fmt.Sprintf("unknown sort field: %q", sortField))
	}

	sortDir := database.Asc
	if strings.EqualFold(values.Get("_sortDir"), "DESC") {
		sortDir = database.Desc
	}

	predicates, err := ParseFilters(values.Get("_filters"), table)
	if err != nil {
		return nil, err
	}

	return &QuerySpec{
		Offset:     offset,
		Limit:      perPage,
		SortField:  sortField,
		SortDir:    sortDir,
		Predicates: predicates,
	}, nil
}

package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/picstrata/backend/internal/models"
)

// Validate checks a query without evaluating it: the format version must
// be recognized, every criterion must compile and every order-by clause
// must name a sortable attribute.  Album create/update use this so a
// bad query is rejected before it is persisted.
func Validate(q *models.FileQuery) error {
	if q.Version != models.FileQueryVersion {
		return fmt.Errorf("version %q: %w", q.Version, ErrUnsupportedQueryVersion)
	}
	for _, c := range q.Criteria {
		if _, err := compileCriterion(c); err != nil {
			return err
		}
	}
	for _, ob := range q.OrderBy {
		if err := validateOrderBy(ob); err != nil {
			return err
		}
	}
	return nil
}

// Resolve evaluates the query against the candidate files and returns
// the matching file IDs in order.  Criteria combine with AND semantics;
// an empty criteria list matches every candidate.  Order-by clauses
// apply in listed priority; importedOn then fileId is always appended
// as the final tie-break, so resolving the same query against an
// unchanged candidate set yields an identical sequence every time.
func Resolve(q *models.FileQuery, files []*models.File) ([]string, error) {
	if q.Version != models.FileQueryVersion {
		return nil, fmt.Errorf("version %q: %w", q.Version, ErrUnsupportedQueryVersion)
	}

	matchers := make([]matcher, 0, len(q.Criteria))
	for _, c := range q.Criteria {
		m, err := compileCriterion(c)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	for _, ob := range q.OrderBy {
		if err := validateOrderBy(ob); err != nil {
			return nil, err
		}
	}

	matched := make([]*models.File, 0, len(files))
	for _, f := range files {
		if matchesAll(f, matchers) {
			matched = append(matched, f)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return lessFiles(matched[i], matched[j], q.OrderBy)
	})

	ids := make([]string, len(matched))
	for i, f := range matched {
		ids[i] = f.FileID
	}
	return ids, nil
}

func matchesAll(f *models.File, matchers []matcher) bool {
	for _, m := range matchers {
		if !m(f) {
			return false
		}
	}
	return true
}

func validateOrderBy(ob models.FileOrderBy) error {
	spec, err := Lookup(ob.Attribute)
	if err != nil {
		return fmt.Errorf("order-by attribute %q: %w", ob.Attribute, err)
	}
	if !spec.Sortable() {
		return fmt.Errorf("order-by attribute %q is not sortable: %w", ob.Attribute, ErrUnsupportedOperator)
	}
	if ob.Direction != models.SortAscending && ob.Direction != models.SortDescending {
		return fmt.Errorf("order-by direction %q: %w", ob.Direction, ErrInvalidValue)
	}
	return nil
}

// lessFiles orders two files by the order-by clauses, falling back to
// importedOn then fileId so the overall order is always total
func lessFiles(a, b *models.File, orderBy []models.FileOrderBy) bool {
	for _, ob := range orderBy {
		cmp := compareByAttribute(a, b, ob.Attribute, ob.Direction)
		if cmp != 0 {
			return cmp < 0
		}
	}
	if cmp := compareTimes(a.ImportedOn, b.ImportedOn); cmp != 0 {
		return cmp < 0
	}
	return strings.Compare(a.FileID, b.FileID) < 0
}

// compareByAttribute compares one clause.  Files missing the attribute
// sort after files that have it, regardless of direction.
func compareByAttribute(a, b *models.File, attr models.FileAttribute, dir models.SortDirection) int {
	spec, _ := Lookup(attr)

	var cmp int
	var aok, bok bool

	switch spec.Type {
	case TypeID, TypeText:
		var av, bv string
		av, aok = stringValue(a, attr)
		bv, bok = stringValue(b, attr)
		if spec.Type == TypeText {
			av, bv = strings.ToLower(av), strings.ToLower(bv)
		}
		cmp = strings.Compare(av, bv)
	case TypeNumber:
		var av, bv float64
		av, aok = numberValue(a, attr)
		bv, bok = numberValue(b, attr)
		cmp = compareFloats(av, bv)
	case TypeBoolean:
		var av, bv bool
		av, aok = boolValue(a, attr)
		bv, bok = boolValue(b, attr)
		cmp = compareBools(av, bv)
	case TypeDate:
		var av, bv time.Time
		av, aok = dateValue(a, attr)
		bv, bok = dateValue(b, attr)
		cmp = compareTimes(av, bv)
	default:
		return 0
	}

	// Missing values sort last independent of direction
	if aok != bok {
		if !aok {
			return 1
		}
		return -1
	}
	if !aok {
		return 0
	}

	if dir == models.SortDescending {
		return -cmp
	}
	return cmp
}

// compareBools orders false before true
func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

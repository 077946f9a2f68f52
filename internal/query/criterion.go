package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/picstrata/backend/internal/models"
)

// matcher evaluates one compiled criterion against a file record
type matcher func(f *models.File) bool

// Matches evaluates a single criterion against a file record.  Most
// callers should compile a whole query with Resolve instead; this is
// the one-criterion entry point.
func Matches(f *models.File, c models.FileCriterion) (bool, error) {
	m, err := compileCriterion(c)
	if err != nil {
		return false, err
	}
	return m(f), nil
}

// compileCriterion validates the criterion against the registry and
// returns its matcher.  Value typing is resolved here, once, so the
// matcher never inspects raw untyped values.
//
// Absence policy: a file lacking the attribute never matches a positive
// criterion (eq, oneOf, comparisons, contains) and always matches a
// negated one (neq, notOneOf).
func compileCriterion(c models.FileCriterion) (matcher, error) {
	spec, err := Lookup(c.Attribute)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
	}
	if !spec.SupportsOperator(c.Operator) {
		return nil, fmt.Errorf("attribute %q does not support operator %q: %w",
			c.Attribute, c.Operator, ErrUnsupportedOperator)
	}

	if spec.Type == TypeTags {
		return compileTagsCriterion(c)
	}

	switch c.Operator {
	case models.OperatorEquals, models.OperatorNotEquals:
		return compileEquality(c, spec)
	case models.OperatorOneOf, models.OperatorNotOneOf:
		return compileMembership(c, spec)
	case models.OperatorLessThan, models.OperatorLessThanOrEquals,
		models.OperatorGreaterThan, models.OperatorGreaterThanOrEquals:
		return compileComparison(c, spec)
	case models.OperatorContains:
		return compileSubstring(c)
	default:
		return nil, fmt.Errorf("operator %q: %w", c.Operator, ErrUnsupportedOperator)
	}
}

// test reports (attribute present, positive operator matched)
type test func(f *models.File) (bool, bool)

// positive matchers exclude files lacking the attribute
func positive(t test) matcher {
	return func(f *models.File) bool {
		present, matched := t(f)
		return present && matched
	}
}

// negated matchers include files lacking the attribute
func negated(t test) matcher {
	return func(f *models.File) bool {
		present, matched := t(f)
		return !present || !matched
	}
}

func compileEquality(c models.FileCriterion, spec AttributeSpec) (matcher, error) {
	var t test

	switch spec.Type {
	case TypeID, TypeText:
		want, err := coerceString(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		t = func(f *models.File) (bool, bool) {
			v, ok := stringValue(f, c.Attribute)
			return ok, ok && equalStrings(spec.Type, v, want)
		}
	case TypeNumber:
		want, err := coerceNumber(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		t = func(f *models.File) (bool, bool) {
			v, ok := numberValue(f, c.Attribute)
			return ok, ok && v == want
		}
	case TypeBoolean:
		want, err := coerceBool(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		t = func(f *models.File) (bool, bool) {
			v, ok := boolValue(f, c.Attribute)
			return ok, ok && v == want
		}
	case TypeDate:
		want, err := coerceDate(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		t = func(f *models.File) (bool, bool) {
			v, ok := dateValue(f, c.Attribute)
			return ok, ok && v.Equal(want)
		}
	default:
		return nil, fmt.Errorf("attribute %q: %w", c.Attribute, ErrUnsupportedOperator)
	}

	if c.Operator == models.OperatorNotEquals {
		return negated(t), nil
	}
	return positive(t), nil
}

func compileMembership(c models.FileCriterion, spec AttributeSpec) (matcher, error) {
	want, err := coerceStringSet(c.Value)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
	}

	t := func(f *models.File) (bool, bool) {
		v, ok := stringValue(f, c.Attribute)
		if !ok {
			return false, false
		}
		for _, w := range want {
			if equalStrings(spec.Type, v, w) {
				return true, true
			}
		}
		return true, false
	}

	if c.Operator == models.OperatorNotOneOf {
		return negated(t), nil
	}
	return positive(t), nil
}

func compileComparison(c models.FileCriterion, spec AttributeSpec) (matcher, error) {
	switch spec.Type {
	case TypeNumber:
		want, err := coerceNumber(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		return positive(func(f *models.File) (bool, bool) {
			v, ok := numberValue(f, c.Attribute)
			return ok, ok && compareMatches(c.Operator, compareFloats(v, want))
		}), nil
	case TypeDate:
		want, err := coerceDate(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		return positive(func(f *models.File) (bool, bool) {
			v, ok := dateValue(f, c.Attribute)
			return ok, ok && compareMatches(c.Operator, compareTimes(v, want))
		}), nil
	default:
		// The registry only marks numbers and dates as ordered
		return nil, fmt.Errorf("attribute %q has no ordering: %w", c.Attribute, ErrUnsupportedOperator)
	}
}

func compileSubstring(c models.FileCriterion) (matcher, error) {
	want, err := coerceString(c.Value)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
	}
	lowered := strings.ToLower(want)

	return positive(func(f *models.File) (bool, bool) {
		v, ok := stringValue(f, c.Attribute)
		return ok, ok && strings.Contains(strings.ToLower(v), lowered)
	}), nil
}

// compileTagsCriterion handles the tag-set attribute.  Semantics:
// eq is exact set equality, oneOf is any overlap, contains is a single
// tag's presence.  Tags compare case-sensitively.
func compileTagsCriterion(c models.FileCriterion) (matcher, error) {
	switch c.Operator {
	case models.OperatorEquals, models.OperatorNotEquals:
		want, err := coerceStringSet(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		t := func(f *models.File) (bool, bool) {
			return true, sameTagSet(f.Tags, want)
		}
		if c.Operator == models.OperatorNotEquals {
			return negated(t), nil
		}
		return positive(t), nil

	case models.OperatorOneOf, models.OperatorNotOneOf:
		want, err := coerceStringSet(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		t := func(f *models.File) (bool, bool) {
			return true, anyTagOverlap(f.Tags, want)
		}
		if c.Operator == models.OperatorNotOneOf {
			return negated(t), nil
		}
		return positive(t), nil

	case models.OperatorContains:
		want, err := coerceString(c.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", c.Attribute, err)
		}
		return positive(func(f *models.File) (bool, bool) {
			for _, tag := range f.Tags {
				if tag == want {
					return true, true
				}
			}
			return true, false
		}), nil

	default:
		return nil, fmt.Errorf("attribute %q does not support operator %q: %w",
			c.Attribute, c.Operator, ErrUnsupportedOperator)
	}
}

// --- attribute extractors ---

// stringValue returns the string-typed attribute value and whether it is present
func stringValue(f *models.File, attr models.FileAttribute) (string, bool) {
	switch attr {
	case models.AttributeParentFolderID:
		return f.FolderID, f.FolderID != ""
	case models.AttributeParentFolderName:
		return f.FolderName, f.FolderName != ""
	case models.AttributeFilename:
		return f.Name, f.Name != ""
	default:
		return "", false
	}
}

func numberValue(f *models.File, attr models.FileAttribute) (float64, bool) {
	if attr == models.AttributeRating && f.Rating != nil {
		return float64(*f.Rating), true
	}
	return 0, false
}

func boolValue(f *models.File, attr models.FileAttribute) (bool, bool) {
	if attr == models.AttributeIsVideo {
		return f.IsVideo, true
	}
	return false, false
}

func dateValue(f *models.File, attr models.FileAttribute) (time.Time, bool) {
	switch attr {
	case models.AttributeImportedOn:
		return f.ImportedOn, !f.ImportedOn.IsZero()
	case models.AttributeTakenOn:
		if f.TakenOn != nil {
			return *f.TakenOn, true
		}
	case models.AttributeModifiedOn:
		if f.ModifiedOn != nil {
			return *f.ModifiedOn, true
		}
	}
	return time.Time{}, false
}

// --- value coercion ---

func coerceString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string value, got %T: %w", v, ErrInvalidValue)
	}
	return s, nil
}

func coerceNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a numeric value, got %T: %w", v, ErrInvalidValue)
	}
}

func coerceBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean value, got %T: %w", v, ErrInvalidValue)
	}
	return b, nil
}

// coerceDate accepts RFC 3339 timestamps and plain dates
func coerceDate(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("expected a date string, got %T: %w", v, ErrInvalidValue)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date: %w", s, ErrInvalidValue)
}

func coerceStringSet(v any) ([]string, error) {
	switch set := v.(type) {
	case []string:
		return set, nil
	case []any:
		out := make([]string, 0, len(set))
		for _, item := range set {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a set of strings, got %T element: %w", item, ErrInvalidValue)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a set of strings, got %T: %w", v, ErrInvalidValue)
	}
}

// --- comparison helpers ---

// equalStrings compares case-insensitively for text attributes and
// case-sensitively for identifiers
func equalStrings(t ValueType, a, b string) bool {
	if t == TypeText {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// compareMatches interprets a three-way comparison result for an ordering operator
func compareMatches(op models.Operator, cmp int) bool {
	switch op {
	case models.OperatorLessThan:
		return cmp < 0
	case models.OperatorLessThanOrEquals:
		return cmp <= 0
	case models.OperatorGreaterThan:
		return cmp > 0
	case models.OperatorGreaterThanOrEquals:
		return cmp >= 0
	default:
		return false
	}
}

func sameTagSet(a, b []string) bool {
	as := toSet(a)
	bs := toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for tag := range as {
		if _, ok := bs[tag]; !ok {
			return false
		}
	}
	return true
}

func anyTagOverlap(a, b []string) bool {
	as := toSet(a)
	for _, tag := range b {
		if _, ok := as[tag]; ok {
			return true
		}
	}
	return false
}

func toSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

package query

import (
	"testing"
	"time"

	"github.com/picstrata/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int             { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestMatches_Equality(t *testing.T) {
	file := &models.File{
		LibraryID:  "lib-1",
		FolderID:   "Folder-A",
		FileID:     "file-1",
		Name:       "IMG_0042.JPG",
		FolderName: "Summer BBQ",
		ImportedOn: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Rating:     intPtr(4),
		IsVideo:    false,
	}

	tests := []struct {
		name      string
		criterion models.FileCriterion
		expected  bool
	}{
		{
			name:      "filename equality is case-insensitive",
			criterion: models.FileCriterion{Attribute: models.AttributeFilename, Operator: models.OperatorEquals, Value: "img_0042.jpg"},
			expected:  true,
		},
		{
			name:      "filename equality exact case",
			criterion: models.FileCriterion{Attribute: models.AttributeFilename, Operator: models.OperatorEquals, Value: "IMG_0042.JPG"},
			expected:  true,
		},
		{
			name:      "folder id equality is case-sensitive",
			criterion: models.FileCriterion{Attribute: models.AttributeParentFolderID, Operator: models.OperatorEquals, Value: "folder-a"},
			expected:  false,
		},
		{
			name:      "folder id equality exact case",
			criterion: models.FileCriterion{Attribute: models.AttributeParentFolderID, Operator: models.OperatorEquals, Value: "Folder-A"},
			expected:  true,
		},
		{
			name:      "folder name equality is case-insensitive",
			criterion: models.FileCriterion{Attribute: models.AttributeParentFolderName, Operator: models.OperatorEquals, Value: "summer bbq"},
			expected:  true,
		},
		{
			name:      "not-equals on a present value",
			criterion: models.FileCriterion{Attribute: models.AttributeFilename, Operator: models.OperatorNotEquals, Value: "other.jpg"},
			expected:  true,
		},
		{
			name:      "rating equality",
			criterion: models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorEquals, Value: float64(4)},
			expected:  true,
		},
		{
			name:      "boolean equality",
			criterion: models.FileCriterion{Attribute: models.AttributeIsVideo, Operator: models.OperatorEquals, Value: false},
			expected:  true,
		},
		{
			name:      "date equality as instant",
			criterion: models.FileCriterion{Attribute: models.AttributeImportedOn, Operator: models.OperatorEquals, Value: "2024-06-01T12:00:00Z"},
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := Matches(file, tt.criterion)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, matched)
		})
	}
}

func TestMatches_AbsentAttribute(t *testing.T) {
	// No takenOn, no rating, no tags
	file := &models.File{
		LibraryID:  "lib-1",
		FolderID:   "folder-1",
		FileID:     "file-1",
		Name:       "bare.jpg",
		ImportedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		criterion models.FileCriterion
		expected  bool
	}{
		{
			name:      "equals against absent value excludes",
			criterion: models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorEquals, Value: float64(4)},
			expected:  false,
		},
		{
			name:      "comparison against absent value excludes",
			criterion: models.FileCriterion{Attribute: models.AttributeTakenOn, Operator: models.OperatorLessThan, Value: "2030-01-01"},
			expected:  false,
		},
		{
			name:      "greater-or-equals against absent value excludes",
			criterion: models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorGreaterThanOrEquals, Value: float64(1)},
			expected:  false,
		},
		{
			name:      "not-equals against absent value includes",
			criterion: models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorNotEquals, Value: float64(4)},
			expected:  true,
		},
		{
			name:      "not-one-of against absent value includes",
			criterion: models.FileCriterion{Attribute: models.AttributeParentFolderName, Operator: models.OperatorNotOneOf, Value: []string{"Summer BBQ"}},
			expected:  true,
		},
		{
			name:      "one-of against absent value excludes",
			criterion: models.FileCriterion{Attribute: models.AttributeParentFolderName, Operator: models.OperatorOneOf, Value: []string{"Summer BBQ"}},
			expected:  false,
		},
		{
			name:      "contains against empty tag set excludes",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorContains, Value: "beach"},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := Matches(file, tt.criterion)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, matched)
		})
	}
}

func TestMatches_Comparisons(t *testing.T) {
	taken := time.Date(2023, 7, 14, 18, 30, 0, 0, time.UTC)
	file := &models.File{
		LibraryID:  "lib-1",
		FolderID:   "folder-1",
		FileID:     "file-1",
		Name:       "photo.jpg",
		ImportedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TakenOn:    timePtr(taken),
		Rating:     intPtr(3),
	}

	tests := []struct {
		name      string
		criterion models.FileCriterion
		expected  bool
	}{
		{
			name:      "rating less-than",
			criterion: models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorLessThan, Value: float64(4)},
			expected:  true,
		},
		{
			name:      "rating less-than-or-equals at boundary",
			criterion: models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorLessThanOrEquals, Value: float64(3)},
			expected:  true,
		},
		{
			name:      "rating greater-than excludes at boundary",
			criterion: models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorGreaterThan, Value: float64(3)},
			expected:  false,
		},
		{
			name:      "taken-on before a date",
			criterion: models.FileCriterion{Attribute: models.AttributeTakenOn, Operator: models.OperatorLessThan, Value: "2024-01-01"},
			expected:  true,
		},
		{
			name:      "taken-on after a timestamp",
			criterion: models.FileCriterion{Attribute: models.AttributeTakenOn, Operator: models.OperatorGreaterThan, Value: "2023-07-14T00:00:00Z"},
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := Matches(file, tt.criterion)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, matched)
		})
	}
}

func TestMatches_Tags(t *testing.T) {
	file := &models.File{
		LibraryID:  "lib-1",
		FolderID:   "folder-1",
		FileID:     "file-1",
		Name:       "photo.jpg",
		ImportedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Tags:       []string{"beach", "family", "sunset"},
	}

	tests := []struct {
		name      string
		criterion models.FileCriterion
		expected  bool
	}{
		{
			name:      "equals means same exact set, order-insensitive",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorEquals, Value: []string{"sunset", "beach", "family"}},
			expected:  true,
		},
		{
			name:      "equals against a subset does not match",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorEquals, Value: []string{"beach", "family"}},
			expected:  false,
		},
		{
			name:      "not-equals against a different set matches",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorNotEquals, Value: []string{"beach"}},
			expected:  true,
		},
		{
			name:      "one-of means any overlap",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorOneOf, Value: []string{"city", "beach"}},
			expected:  true,
		},
		{
			name:      "one-of with no overlap does not match",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorOneOf, Value: []string{"city", "winter"}},
			expected:  false,
		},
		{
			name:      "not-one-of with no overlap matches",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorNotOneOf, Value: []string{"city", "winter"}},
			expected:  true,
		},
		{
			name:      "contains means a specific tag is present",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorContains, Value: "family"},
			expected:  true,
		},
		{
			name:      "tag comparison is case-sensitive",
			criterion: models.FileCriterion{Attribute: models.AttributeTags, Operator: models.OperatorContains, Value: "Family"},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := Matches(file, tt.criterion)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, matched)
		})
	}
}

func TestMatches_Errors(t *testing.T) {
	file := &models.File{
		LibraryID:  "lib-1",
		FolderID:   "folder-1",
		FileID:     "file-1",
		Name:       "photo.jpg",
		ImportedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name        string
		criterion   models.FileCriterion
		expectedErr error
	}{
		{
			name:        "unknown attribute",
			criterion:   models.FileCriterion{Attribute: "cameraSerial", Operator: models.OperatorEquals, Value: "x"},
			expectedErr: ErrUnknownAttribute,
		},
		{
			name:        "ordering on a boolean attribute",
			criterion:   models.FileCriterion{Attribute: models.AttributeIsVideo, Operator: models.OperatorLessThan, Value: true},
			expectedErr: ErrUnsupportedOperator,
		},
		{
			name:        "membership on a numeric attribute",
			criterion:   models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorOneOf, Value: []string{"4"}},
			expectedErr: ErrUnsupportedOperator,
		},
		{
			name:        "substring on an identifier attribute",
			criterion:   models.FileCriterion{Attribute: models.AttributeParentFolderID, Operator: models.OperatorContains, Value: "fold"},
			expectedErr: ErrUnsupportedOperator,
		},
		{
			name:        "scalar value for a membership operator",
			criterion:   models.FileCriterion{Attribute: models.AttributeFilename, Operator: models.OperatorOneOf, Value: "photo.jpg"},
			expectedErr: ErrInvalidValue,
		},
		{
			name:        "string value for a numeric attribute",
			criterion:   models.FileCriterion{Attribute: models.AttributeRating, Operator: models.OperatorEquals, Value: "four"},
			expectedErr: ErrInvalidValue,
		},
		{
			name:        "unparseable date value",
			criterion:   models.FileCriterion{Attribute: models.AttributeTakenOn, Operator: models.OperatorLessThan, Value: "yesterday"},
			expectedErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Matches(file, tt.criterion)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

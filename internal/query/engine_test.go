package query

import (
	"testing"
	"time"

	"github.com/picstrata/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// candidateFiles returns a small library used across the engine tests:
//
//	f1  imported 2024-01-01  rating 5   folder "Trips"    tags beach
//	f2  imported 2024-02-01  rating 3   folder "Trips"    video
//	f3  imported 2024-03-01  rating 4   folder "Archive"
//	f4  imported 2024-04-01  no rating  folder "Archive"
func candidateFiles() []*models.File {
	return []*models.File{
		{
			LibraryID: "lib-1", FolderID: "folder-1", FileID: "f1",
			Name: "beach.jpg", FolderName: "Trips",
			ImportedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Rating:     intPtr(5), Tags: []string{"beach"},
		},
		{
			LibraryID: "lib-1", FolderID: "folder-1", FileID: "f2",
			Name: "clip.mp4", FolderName: "Trips", IsVideo: true,
			ImportedOn: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Rating:     intPtr(3),
		},
		{
			LibraryID: "lib-1", FolderID: "folder-2", FileID: "f3",
			Name: "old.jpg", FolderName: "Archive",
			ImportedOn: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Rating:     intPtr(4),
		},
		{
			LibraryID: "lib-1", FolderID: "folder-2", FileID: "f4",
			Name: "unrated.jpg", FolderName: "Archive",
			ImportedOn: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestResolve_UnsupportedVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{name: "unknown version", version: "2.0"},
		{name: "empty version", version: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(&models.FileQuery{Version: tt.version}, candidateFiles())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedQueryVersion)
		})
	}
}

func TestResolve_EmptyQueryDefaultOrder(t *testing.T) {
	// Empty criteria match everything; empty order-by falls back to
	// importedOn then fileId
	q := &models.FileQuery{Version: models.FileQueryVersion}

	ids, err := Resolve(q, candidateFiles())
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2", "f3", "f4"}, ids)
}

func TestResolve_Determinism(t *testing.T) {
	q := &models.FileQuery{
		Version: models.FileQueryVersion,
		Criteria: []models.FileCriterion{
			{Attribute: models.AttributeParentFolderName, Operator: models.OperatorEquals, Value: "trips"},
		},
		OrderBy: []models.FileOrderBy{
			{Attribute: models.AttributeRating, Direction: models.SortDescending},
		},
	}
	files := candidateFiles()

	first, err := Resolve(q, files)
	require.NoError(t, err)
	second, err := Resolve(q, files)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"f1", "f2"}, first)
}

func TestResolve_RatingThresholdAndOrder(t *testing.T) {
	// rating >= 4 matches only the rated 4 and 5 files; descending
	// rating puts 5 first
	q := &models.FileQuery{
		Version: models.FileQueryVersion,
		Criteria: []models.FileCriterion{
			{Attribute: models.AttributeRating, Operator: models.OperatorGreaterThanOrEquals, Value: float64(4)},
		},
		OrderBy: []models.FileOrderBy{
			{Attribute: models.AttributeRating, Direction: models.SortDescending},
		},
	}

	ids, err := Resolve(q, candidateFiles())
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f3"}, ids)
}

func TestResolve_ConjunctiveCriteria(t *testing.T) {
	q := &models.FileQuery{
		Version: models.FileQueryVersion,
		Criteria: []models.FileCriterion{
			{Attribute: models.AttributeParentFolderName, Operator: models.OperatorEquals, Value: "Trips"},
			{Attribute: models.AttributeIsVideo, Operator: models.OperatorEquals, Value: false},
		},
	}

	ids, err := Resolve(q, candidateFiles())
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, ids)
}

func TestResolve_OrderByTieBreak(t *testing.T) {
	// Both Archive files tie on folder name; the second clause and the
	// implicit fileId fallback settle the order
	q := &models.FileQuery{
		Version: models.FileQueryVersion,
		OrderBy: []models.FileOrderBy{
			{Attribute: models.AttributeParentFolderName, Direction: models.SortAscending},
			{Attribute: models.AttributeRating, Direction: models.SortDescending},
		},
	}

	ids, err := Resolve(q, candidateFiles())
	require.NoError(t, err)
	// Archive before Trips; within Archive rating 4 before the unrated
	// file (missing values sort last); within Trips 5 before 3
	assert.Equal(t, []string{"f3", "f4", "f1", "f2"}, ids)
}

func TestResolve_MissingValuesSortLastDescending(t *testing.T) {
	q := &models.FileQuery{
		Version: models.FileQueryVersion,
		OrderBy: []models.FileOrderBy{
			{Attribute: models.AttributeRating, Direction: models.SortDescending},
		},
	}

	ids, err := Resolve(q, candidateFiles())
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f3", "f2", "f4"}, ids)
}

func TestResolve_NoMatchesIsEmptyNotError(t *testing.T) {
	q := &models.FileQuery{
		Version: models.FileQueryVersion,
		Criteria: []models.FileCriterion{
			{Attribute: models.AttributeTags, Operator: models.OperatorContains, Value: "winter"},
		},
	}

	ids, err := Resolve(q, candidateFiles())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		query       models.FileQuery
		expectedErr error
	}{
		{
			name:  "valid query",
			query: models.FileQuery{
				Version: models.FileQueryVersion,
				Criteria: []models.FileCriterion{
					{Attribute: models.AttributeFilename, Operator: models.OperatorContains, Value: "IMG"},
				},
				OrderBy: []models.FileOrderBy{
					{Attribute: models.AttributeTakenOn, Direction: models.SortAscending},
				},
			},
		},
		{
			name:        "unsupported version",
			query:       models.FileQuery{Version: "0.9"},
			expectedErr: ErrUnsupportedQueryVersion,
		},
		{
			name: "order-by on tags",
			query: models.FileQuery{
				Version: models.FileQueryVersion,
				OrderBy: []models.FileOrderBy{{Attribute: models.AttributeTags, Direction: models.SortAscending}},
			},
			expectedErr: ErrUnsupportedOperator,
		},
		{
			name: "order-by with a bad direction",
			query: models.FileQuery{
				Version: models.FileQueryVersion,
				OrderBy: []models.FileOrderBy{{Attribute: models.AttributeRating, Direction: "down"}},
			},
			expectedErr: ErrInvalidValue,
		},
		{
			name: "criterion with an unknown attribute",
			query: models.FileQuery{
				Version:  models.FileQueryVersion,
				Criteria: []models.FileCriterion{{Attribute: "lens", Operator: models.OperatorEquals, Value: "50mm"}},
			},
			expectedErr: ErrUnknownAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.query)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

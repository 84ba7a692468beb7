package database

import (
	"testing"
	"time"

	"github.com/rht/casedesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQueryNoFilter(t *testing.T) {
	query, args := buildListQuery(models.CaseFilter{}, time.UTC)

	assert.Equal(t, "SELECT "+listColumns+" FROM complaints ORDER BY created_at DESC", query)
	assert.Empty(t, args)
}

func TestBuildListQuerySentinelsExcluded(t *testing.T) {
	f, err := models.NewCaseFilter(models.AllStatuses, models.AllTypes, "", "", time.UTC)
	require.NoError(t, err)

	query, args := buildListQuery(f, time.UTC)

	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestBuildListQueryAllPredicates(t *testing.T) {
	f, err := models.NewCaseFilter("Resolved", "Utility Disconnection", "2024-03-01", "2024-03-15", time.UTC)
	require.NoError(t, err)

	query, args := buildListQuery(f, time.UTC)

	assert.Equal(t, "SELECT "+listColumns+" FROM complaints"+
		" WHERE status = $1 AND complaint @> $2::jsonb AND created_at >= $3 AND created_at < $4"+
		" ORDER BY created_at DESC", query)
	require.Len(t, args, 4)
	assert.Equal(t, "Resolved", args[0])
	assert.Equal(t, map[string]string{"type": "Utility Disconnection"}, args[1])
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), args[2])
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), args[3])
}

func TestBuildListQueryEndOnly(t *testing.T) {
	f, err := models.NewCaseFilter("", "", "", "2024-03-15", time.UTC)
	require.NoError(t, err)

	query, args := buildListQuery(f, time.UTC)

	assert.Contains(t, query, "WHERE created_at < $1 ORDER BY")
	assert.Equal(t, []any{time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)}, args)
}

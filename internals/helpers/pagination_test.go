package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeOrderClause_Whitelist(t *testing.T) {
	allowed := map[string]string{
		"created_at": "student_created_at",
		"name":       "student_name",
	}

	p := Params{SortBy: "name", SortOrder: "asc"}
	clause, err := p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY student_name ASC", clause)

	// kolom liar jatuh ke default, bukan injeksi
	p = Params{SortBy: "student_name; DROP TABLE students", SortOrder: "desc"}
	clause, err = p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY student_created_at DESC", clause)
}

func TestSafeOrderClause_NoDefault(t *testing.T) {
	p := Params{SortBy: "x"}
	_, err := p.SafeOrderClause(map[string]string{}, "created_at")
	assert.Error(t, err)
}

func TestLimitOffset(t *testing.T) {
	p := Params{Page: 3, PerPage: 25}
	assert.Equal(t, 25, p.Limit())
	assert.Equal(t, 50, p.Offset())
}

func TestBuildMeta(t *testing.T) {
	p := Params{Page: 2, PerPage: 10}
	m := BuildMeta(35, p)

	assert.Equal(t, int64(35), m.Total)
	assert.Equal(t, 4, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)
	require.NotNil(t, m.NextPage)
	assert.Equal(t, 3, *m.NextPage)
	require.NotNil(t, m.PrevPage)
	assert.Equal(t, 1, *m.PrevPage)
}

func TestBuildMeta_Empty(t *testing.T) {
	m := BuildMeta(0, Params{Page: 1, PerPage: 10})
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrev)
}

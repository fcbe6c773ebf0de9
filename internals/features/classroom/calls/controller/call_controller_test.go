package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "kelasku_backend/internals/helpers"
)

func TestListHistory_SortWhitelist(t *testing.T) {
	// sort_by dari caller dipetakan ke kolom yang di-whitelist
	p := helper.Params{SortBy: "mode", SortOrder: "asc"}
	clause, err := p.SafeOrderClause(historySortColumns, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY call_record_mode ASC", clause)

	// kolom liar → fallback ke default, bukan raw SQL
	p = helper.Params{SortBy: "call_record_mode; DROP TABLE call_records", SortOrder: "desc"}
	clause, err = p.SafeOrderClause(historySortColumns, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY call_record_created_at DESC", clause)
}

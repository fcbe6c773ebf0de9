package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "kelasku_backend/internals/helpers"
)

func TestList_SortWhitelist(t *testing.T) {
	p := helper.Params{SortBy: "status", SortOrder: "asc"}
	clause, err := p.SafeOrderClause(sessionSortColumns, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY pk_session_status ASC", clause)

	p = helper.Params{SortBy: "winner", SortOrder: "desc"}
	clause, err = p.SafeOrderClause(sessionSortColumns, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY pk_session_created_at DESC", clause)
}

package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmlastro/internal/models"
)

func TestAstrologerListQueryUnfiltered(t *testing.T) {
	query, args, err := astrologerListQuery(models.AstrologerFilter{})
	require.NoError(t, err)

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY `rating` DESC, `name` ASC")
	assert.Empty(t, args)
}

func TestAstrologerListQueryFilters(t *testing.T) {
	query, args, err := astrologerListQuery(models.AstrologerFilter{
		Search:         "Tarot",
		Specialization: "Vedic",
		Language:       "Hindi",
	})
	require.NoError(t, err)

	assert.Contains(t, query, "LOWER(name) LIKE ?")
	assert.Contains(t, query, "JSON_SEARCH(LOWER(CAST(specialization AS CHAR)), 'one', ?) IS NOT NULL")
	assert.Contains(t, query, "JSON_SEARCH(LOWER(CAST(languages AS CHAR)), 'one', ?) IS NOT NULL")
	assert.Contains(t, query, "JSON_CONTAINS(specialization, JSON_QUOTE(?))")
	assert.Contains(t, query, "JSON_CONTAINS(languages, JSON_QUOTE(?))")
	assert.Contains(t, query, "ORDER BY `rating` DESC")
	assert.Equal(t, []any{"%tarot%", "%tarot%", "%tarot%", "Vedic", "Hindi"}, args)
}

func TestAstrologerSearchSkipsJSONPunctuation(t *testing.T) {
	query, args, err := astrologerListQuery(models.AstrologerFilter{Search: `","`})
	require.NoError(t, err)

	assert.NotContains(t, query, "AS CHAR)) LIKE")
	assert.Contains(t, query, "LOWER(name) LIKE ?")
	assert.Equal(t, []any{`%","%`, `%","%`, `%","%`}, args)
}

func TestServiceListQuery(t *testing.T) {
	query, args, err := serviceListQuery(models.ServiceFilter{CategoryID: "c1", Search: "50%", Featured: true})
	require.NoError(t, err)

	assert.Contains(t, query, "`is_active` IS TRUE")
	assert.Contains(t, query, "`category_id` = ?")
	assert.Contains(t, query, "`is_featured` IS TRUE")
	assert.Contains(t, query, "JSON_SEARCH(LOWER(CAST(tags AS CHAR)), 'one', ?) IS NOT NULL")
	assert.Contains(t, query, "ORDER BY `is_featured` DESC, `name` ASC")
	assert.Equal(t, []any{"c1", `%50\%%`, `%50\%%`, `%50\%%`}, args)
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%a\_b%`, likePattern("A_B"))
}

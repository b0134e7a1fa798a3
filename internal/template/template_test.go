package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gqlgate/gqlgate/internal/template"
)

func TestParseLiteralRoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"/posts",
		"plain text with } and { braces",
		"/users/42?expand=true",
	} {
		tpl, err := template.Parse(s)
		require.NoError(t, err, s)
		assert.True(t, tpl.IsLiteral())
		assert.Equal(t, s, tpl.String())
	}
}

func TestParseExpressions(t *testing.T) {
	tpl, err := template.Parse("/posts/{{args.id}}/comments/{{ value.commentId }}")
	require.NoError(t, err)

	segs := tpl.Segments()
	require.Len(t, segs, 4)
	assert.Equal(t, "/posts/", segs[0].Literal)
	assert.Equal(t, []string{"args", "id"}, segs[1].Expr)
	assert.Equal(t, "/comments/", segs[2].Literal)
	assert.Equal(t, []string{"value", "commentId"}, segs[3].Expr)
	assert.False(t, tpl.IsLiteral())

	// Whitespace inside braces normalizes away on re-serialization.
	assert.Equal(t, "/posts/{{args.id}}/comments/{{value.commentId}}", tpl.String())
}

func TestParseExpressionOnly(t *testing.T) {
	tpl, err := template.Parse("{{args.postId}}")
	require.NoError(t, err)
	require.Len(t, tpl.Segments(), 1)
	assert.Equal(t, []string{"args", "postId"}, tpl.Segments()[0].Expr)
	assert.Equal(t, "{{args.postId}}", tpl.String())
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{
		"/posts/{{args.id",
		"{{}}",
		"{{ }}",
		"{{args..id}}",
		"{{args.1id}}",
		"{{a b}}",
	} {
		_, err := template.Parse(s)
		assert.Error(t, err, s)
	}
}

func TestLiteralConstructor(t *testing.T) {
	tpl := template.Literal("/posts/{{not.parsed}}")
	assert.True(t, tpl.IsLiteral())
	assert.Equal(t, "/posts/{{not.parsed}}", tpl.String())

	assert.Empty(t, template.Literal("").Segments())
}

func TestFromSegments(t *testing.T) {
	tpl := template.FromSegments([]template.Segment{
		{Literal: "/posts/"},
		{Expr: []string{"args", "id"}},
	})
	assert.Equal(t, "/posts/{{args.id}}", tpl.String())
}

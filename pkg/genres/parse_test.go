package genres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reelmap/internal/utils/ptr"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/genres"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want []string
	}{
		{
			name: "typical field",
			raw:  ptr.String("[{'id': 18, 'name': 'Drama'}, {'id': 80, 'name': 'Crime'}]"),
			want: []string{"Drama", "Crime"},
		},
		{
			name: "double quoted names",
			raw:  ptr.String(`[{"id": 10751, "name": "Family"}]`),
			want: []string{"Family"},
		},
		{
			name: "escaped quote inside name",
			raw:  ptr.String(`[{'id': 1, 'name': 'Children\'s'}]`),
			want: []string{"Children's"},
		},
		{
			name: "tuple of records",
			raw:  ptr.String("({'name': 'Action'},)"),
			want: []string{"Action"},
		},
		{
			name: "duplicates pass through",
			raw:  ptr.String("[{'name': 'Drama'}, {'name': 'Drama'}]"),
			want: []string{"Drama", "Drama"},
		},
		{
			name: "skips non-records and nameless records",
			raw:  ptr.String("[{'id': 1}, 'Drama', 7, None, {'name': ''}, {'name': 5}, {'name': 'Comedy'}]"),
			want: []string{"Comedy"},
		},
		{
			name: "empty list",
			raw:  ptr.String("[]"),
			want: []string{},
		},
		{
			name: "nil cell",
			raw:  nil,
			want: []string{},
		},
		{
			name: "empty string",
			raw:  ptr.String(""),
			want: []string{},
		},
		{
			name: "blank string",
			raw:  ptr.String("   "),
			want: []string{},
		},
		{
			name: "plain text",
			raw:  ptr.String("not a list"),
			want: []string{},
		},
		{
			name: "truncated list",
			raw:  ptr.String("[{'id': 18, 'name': 'Dra"),
			want: []string{},
		},
		{
			name: "single record is not a list",
			raw:  ptr.String("{'id': 18, 'name': 'Drama'}"),
			want: []string{},
		},
		{
			name: "trailing garbage",
			raw:  ptr.String("[{'name': 'Drama'}] extra"),
			want: []string{},
		},
		{
			name: "json null",
			raw:  ptr.String("null"),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := genres.ParseList(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseText(t *testing.T) {
	assert.Equal(t, []string{"Drama"}, genres.ParseText("[{'id':18,'name':'Drama'}]"))
	assert.Empty(t, genres.ParseText("not a list"))
}

func TestDecode(t *testing.T) {
	t.Run("variants", func(t *testing.T) {
		v, err := genres.Decode("[{'id': 18, 'name': u'Drama', 'tags': (1, 2.5, True)}, {1, 2}]")
		require.NoError(t, err)

		list, ok := v.(genres.List)
		require.True(t, ok)
		require.Len(t, list, 2)

		rec, ok := list[0].(genres.Record)
		require.True(t, ok)
		name, ok := rec.Name()
		assert.True(t, ok)
		assert.Equal(t, "Drama", name)
		assert.Equal(t, genres.Scalar{Kind: genres.KindInt, Text: "18"}, rec["id"])

		set, ok := list[1].(genres.List)
		require.True(t, ok)
		assert.Len(t, set, 2)
	})

	t.Run("adjacent strings concatenate", func(t *testing.T) {
		v, err := genres.Decode(`'Science ' "Fiction"`)
		require.NoError(t, err)
		assert.Equal(t, genres.Scalar{Kind: genres.KindString, Text: "Science Fiction"}, v)
	})

	t.Run("unicode escape", func(t *testing.T) {
		v, err := genres.Decode(`'Com\u00e9die'`)
		require.NoError(t, err)
		assert.Equal(t, genres.Scalar{Kind: genres.KindString, Text: "Comédie"}, v)
	})

	t.Run("error is a parse error with offset", func(t *testing.T) {
		_, err := genres.Decode("[{'name': 'Drama'")
		require.Error(t, err)
		var parseErr *errors.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "literal", parseErr.Format)
	})

	t.Run("parse wraps failures as opaque", func(t *testing.T) {
		v := genres.Parse("[1, 2")
		opaque, ok := v.(genres.Opaque)
		require.True(t, ok)
		assert.Equal(t, "[1, 2", opaque.Text)
		assert.Error(t, opaque.Err)
	})

	t.Run("deep nesting is rejected", func(t *testing.T) {
		deep := ""
		for i := 0; i < 100; i++ {
			deep += "["
		}
		_, err := genres.Decode(deep)
		assert.Error(t, err)
	})
}

func TestParseListNeverPanics(t *testing.T) {
	inputs := []string{
		"[", "]", "{", "}", "[{", "[{'name'", "[{'name':", "[{'name': }]",
		"'", `"`, `'\`, `'\x4'`, `'\u12'`, "[1,,2]", "{'a' 'b'}", "--1", "1e", "u", "r'x",
		"[{'name': 'Drama'},]", "[{'name': 'Drama',}]",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { genres.ParseText(in) }, "input %q", in)
	}
	assert.Equal(t, []string{"Drama"}, genres.ParseText("[{'name': 'Drama'},]"))
	assert.Equal(t, []string{"Drama"}, genres.ParseText("[{'name': 'Drama',}]"))
}

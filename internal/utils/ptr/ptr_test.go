package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClone(t *testing.T) {
	assert.Nil(t, Clone[int64](nil))

	orig := Int64(862)
	cp := Clone(orig)
	assert.Equal(t, orig, cp)
	*cp = 8844
	assert.Equal(t, int64(862), *orig, "clone must not share memory")
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *string
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", String("tt0114709"), nil, false},
		{"same value", String("tt0114709"), String("tt0114709"), true},
		{"different value", String("tt0114709"), String("tt0113497"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "tt0114709", *String("tt0114709"))
	assert.Equal(t, 81, *Int(81))
	assert.Equal(t, int64(862), *Int64(862))
	assert.Equal(t, 7.7, *Float64(7.7))
}

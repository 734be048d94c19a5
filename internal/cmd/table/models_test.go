package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/reelmap/pkg/onehot"
)

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range tests {
		assert.Equal(t, want, FormatNumber(n))
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0", FormatFloat(0))
	assert.Equal(t, "70.5", FormatFloat(70.5))
	assert.Equal(t, "0.333", FormatFloat(1.0/3))
	assert.Equal(t, "168", FormatFloat(168))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", FormatDuration(0))
	assert.Equal(t, "1.235s", FormatDuration(1234567*time.Microsecond))
}

func TestVocabularyToTableData(t *testing.T) {
	vocab := onehot.NewVocabulary("Drama", "Comedy")

	d := VocabularyToTableData(vocab, nil)
	assert.Equal(t, []string{"#", "Genre"}, d.Headers)
	assert.Equal(t, [][]string{{"0", "Comedy"}, {"1", "Drama"}}, d.Rows)

	d = VocabularyToTableData(vocab, []int{1200, 3})
	assert.Equal(t, []string{"#", "Genre", "Movies"}, d.Headers)
	assert.Equal(t, []string{"0", "Comedy", "1,200"}, d.Rows[0])
	assert.Len(t, d.ColumnAlignment, 3)
}

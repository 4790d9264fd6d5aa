package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradesync/pkg/contracts/domain"
)

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Score
	}{
		{raw: "н", want: domain.Absent()},
		{raw: "Н", want: domain.Absent()},
		{raw: ` "н" `, want: domain.Absent()},
		{raw: "Б", want: domain.ExcusedMedical()},
		{raw: "б", want: domain.ExcusedMedical()},
		{raw: "зачет авто", want: domain.Passed()},
		{raw: "Зачет", want: domain.Passed()},
		{raw: "87", want: domain.Numeric(87)},
		{raw: "87.5", want: domain.Numeric(87.5)},
		{raw: "150", want: domain.Numeric(150)},
		{raw: "-3", want: domain.Numeric(-3)},
		{raw: "", want: domain.NoScore()},
		{raw: "n/a", want: domain.NoScore()},
		{raw: "нн", want: domain.NoScore()},
		{raw: "inf", want: domain.NoScore()},
		{raw: "NaN", want: domain.NoScore()},
		{raw: "87 баллов", want: domain.NoScore()},
		{raw: "1_0", want: domain.NoScore()},
		{raw: "0x1p4", want: domain.NoScore()},
		{raw: "1e2", want: domain.Numeric(100)},
		{raw: ".5", want: domain.Numeric(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyScore(tt.raw))
		})
	}
}

func TestParseAverage(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{raw: "90.5", want: ptr(90.5)},
		{raw: "90,5", want: ptr(90.5)},
		{raw: " 77 ", want: ptr(77)},
		{raw: "88.1%", want: ptr(88.1)},
		{raw: "", want: nil},
		{raw: "—", want: nil},
		{raw: "abc", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := parseAverage(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestParseLeadingInt(t *testing.T) {
	v, ok := parseLeadingInt("2")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = parseLeadingInt(" 1 неделя")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = parseLeadingInt("неделя")
	assert.False(t, ok)

	_, ok = parseLeadingInt("")
	assert.False(t, ok)
}

func ptr(v float64) *float64 { return &v }

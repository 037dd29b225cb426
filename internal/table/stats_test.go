package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numericTable(t *testing.T, name string, vals []Value) *Table {
	t.Helper()
	tbl := New([]Column{{Name: name, Kind: KindReal}})
	for _, v := range vals {
		require.NoError(t, tbl.AppendRow([]Value{v}))
	}
	return tbl
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		vals []Value
		want float64
		ok   bool
	}{
		{
			name: "odd count",
			vals: []Value{Number(3), Number(1), Number(2)},
			want: 2,
			ok:   true,
		},
		{
			name: "even count takes mean of middles",
			vals: []Value{Number(4), Number(1), Number(3), Number(2)},
			want: 2.5,
			ok:   true,
		},
		{
			name: "nulls ignored",
			vals: []Value{Number(10), Null(), Number(20), Null()},
			want: 15,
			ok:   true,
		},
		{
			name: "single value",
			vals: []Value{Number(7)},
			want: 7,
			ok:   true,
		},
		{
			name: "all null",
			vals: []Value{Null(), Null()},
			ok:   false,
		},
		{
			name: "empty",
			vals: nil,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := numericTable(t, "X", tt.vals)
			got, ok := tbl.Median("X")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMedian_AbsentOrTextColumn(t *testing.T) {
	tbl := textTable(t, []string{"S"}, [][]Value{{String("a")}})

	_, ok := tbl.Median("S")
	assert.False(t, ok)

	_, ok = tbl.Median("MISSING")
	assert.False(t, ok)
}

func TestMode(t *testing.T) {
	tests := []struct {
		name string
		vals []string // "" means null
		want string
		ok   bool
	}{
		{
			name: "clear winner",
			vals: []string{"a", "b", "b", "c"},
			want: "b",
			ok:   true,
		},
		{
			name: "tie goes to first encountered",
			vals: []string{"x", "y", "y", "x"},
			want: "x",
			ok:   true,
		},
		{
			name: "nulls ignored",
			vals: []string{"", "", "z"},
			want: "z",
			ok:   true,
		},
		{
			name: "all null",
			vals: []string{"", ""},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New([]Column{{Name: "S", Kind: KindText}})
			for _, s := range tt.vals {
				v := Null()
				if s != "" {
					v = String(s)
				}
				require.NoError(t, tbl.AppendRow([]Value{v}))
			}

			got, ok := tbl.Mode("S")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNullCount(t *testing.T) {
	tbl := numericTable(t, "X", []Value{Number(1), Null(), Null(), Number(2)})

	assert.Equal(t, 2, tbl.NullCount("X"))
	assert.Equal(t, -1, tbl.NullCount("MISSING"))
}

func TestSummarize(t *testing.T) {
	tbl := numericTable(t, "SALES", []Value{
		Number(100), Number(-50), Null(), Number(250),
	})

	s, ok := tbl.Summarize("SALES")
	require.True(t, ok)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.Nulls)
	assert.Equal(t, -50.0, s.Min)
	assert.Equal(t, 250.0, s.Max)
	assert.InDelta(t, 100.0, s.Mean, 1e-9)
}

func TestSummarize_TextColumn(t *testing.T) {
	tbl := textTable(t, []string{"S"}, [][]Value{{String("a")}})

	_, ok := tbl.Summarize("S")
	assert.False(t, ok)
}

package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testConfig(rows int64) Config {
	return Config{
		Columns:       20,
		Rows:          rows,
		CellWidth:     96,
		CellHeight:    50,
		HeaderHeight:  40,
		VisibleWidth:  1200,
		VisibleHeight: 800,
	}
}

func TestTotalHeight(t *testing.T) {
	tests := []struct {
		name string
		rows int64
		want float64
	}{
		{name: "empty grid is header only", rows: 0, want: 40},
		{name: "single row", rows: 1, want: 90},
		{name: "one short of a chunk", rows: 9_999_999, want: 9_999_999*50 + 40},
		{name: "exactly one chunk", rows: 10_000_000, want: 10_000_000*50 + 40},
		{name: "one past a chunk", rows: 10_000_001, want: 10_000_001*50 + 40},
		{name: "billion rows", rows: 1_000_000_000, want: 50_000_000_040},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TotalHeight(testConfig(tt.rows)))
		})
	}
}

// The chunked sum must agree exactly with the integer product for every
// row count in range, since both stay inside float64's exact window.
func TestTotalHeightMatchesExactProduct(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.Int64Range(0, 1_000_000_000).Draw(t, "rows")
		height := rapid.SampledFrom([]int64{1, 20, 50, 100}).Draw(t, "cellHeight")

		cfg := testConfig(rows)
		cfg.CellHeight = float64(height)

		exact := float64(rows*height) + cfg.HeaderHeight
		require.Equal(t, exact, TotalHeight(cfg))
	})
}

func TestRowToPixel(t *testing.T) {
	cfg := testConfig(1_000_000_000)

	t.Run("row zero", func(t *testing.T) {
		require.Equal(t, 0.0, RowToPixel(cfg, 0))
	})

	t.Run("negative row clamps to zero", func(t *testing.T) {
		require.Equal(t, 0.0, RowToPixel(cfg, -5))
	})

	t.Run("past last row clamps to last row", func(t *testing.T) {
		last := RowToPixel(cfg, cfg.Rows-1)
		require.Equal(t, last, RowToPixel(cfg, cfg.Rows+1000))
	})

	t.Run("last row of a billion", func(t *testing.T) {
		require.Equal(t, float64(999_999_999)*50, RowToPixel(cfg, 999_999_999))
	})

	t.Run("safe ceiling bounds the lookup", func(t *testing.T) {
		capped := cfg
		capped.Rows = 0 // no row-count clamp in play
		capped.MaxSafeRowIndex = 1_000
		require.Equal(t, 1_000*50.0, RowToPixel(capped, 5_000))
	})
}

func TestRowToPixelMatchesExactProduct(t *testing.T) {
	cfg := testConfig(1_000_000_000)
	rapid.Check(t, func(t *rapid.T) {
		row := rapid.Int64Range(0, cfg.Rows-1).Draw(t, "row")
		require.Equal(t, float64(row*50), RowToPixel(cfg, row))
	})
}

func TestRowToPixelMonotonic(t *testing.T) {
	cfg := testConfig(1_000_000_000)
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(0, cfg.Rows-2).Draw(t, "a")
		b := rapid.Int64Range(a+1, cfg.Rows-1).Draw(t, "b")
		require.Less(t, RowToPixel(cfg, a), RowToPixel(cfg, b))
	})
}

// Both chunked computations agree at row boundaries: the offset of row r
// equals the content height of an r-row grid.
func TestMapperBoundaryAgreement(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.Int64Range(1, 1_000_000_000).Draw(t, "r")

		cfg := testConfig(1_000_000_000)
		shorter := cfg
		shorter.Rows = r

		require.Equal(t, TotalHeight(shorter)-cfg.HeaderHeight, RowToPixel(cfg, r))
	})
}

func TestRealMaxScroll(t *testing.T) {
	t.Run("billion rows", func(t *testing.T) {
		cfg := testConfig(1_000_000_000)
		require.Equal(t, 49_999_999_240.0, RealMaxScroll(cfg))
	})

	t.Run("content fits viewport", func(t *testing.T) {
		cfg := testConfig(3) // 3*50+40 = 190 < 800
		require.Equal(t, 0.0, RealMaxScroll(cfg))
	})
}

func TestHorizontalMaxScroll(t *testing.T) {
	cfg := testConfig(10)

	require.Equal(t, 720.0, HorizontalMaxScroll(cfg, 1920))
	require.Equal(t, 0.0, HorizontalMaxScroll(cfg, 800))
	require.Equal(t, 0.0, HorizontalMaxScroll(cfg, 0))
}

func TestScrollRatio(t *testing.T) {
	tests := []struct {
		name      string
		offset    float64
		maxScroll float64
		want      float64
	}{
		{name: "zero max", offset: 100, maxScroll: 0, want: 0},
		{name: "negative max", offset: 100, maxScroll: -5, want: 0},
		{name: "midpoint", offset: 50, maxScroll: 100, want: 0.5},
		{name: "at max", offset: 100, maxScroll: 100, want: 1},
		{name: "overshoot clamps to one", offset: 150, maxScroll: 100, want: 1},
		{name: "negative offset clamps to zero", offset: -10, maxScroll: 100, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ScrollRatio(tt.offset, tt.maxScroll))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, testConfig(1_000_000_000).Validate())
	})

	t.Run("rows beyond safe ceiling", func(t *testing.T) {
		cfg := testConfig(2_000_000_002)
		require.Error(t, cfg.Validate())
	})

	t.Run("raised ceiling admits more rows", func(t *testing.T) {
		cfg := testConfig(2_000_000_002)
		cfg.MaxSafeRowIndex = 3_000_000_000
		require.NoError(t, cfg.Validate())
	})

	t.Run("zero cell height", func(t *testing.T) {
		cfg := testConfig(10)
		cfg.CellHeight = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("negative rows", func(t *testing.T) {
		require.Error(t, testConfig(-1).Validate())
	})
}

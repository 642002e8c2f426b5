package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/grid"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
)

// cell is a zero-indexed grid position.
type cell struct{ r, c int }

func newGrid(cells map[cell]string) *grid.Matrix {
	m := grid.NewMatrix(0)
	for pos, v := range cells {
		m.Set(pos.r, pos.c, v)
	}
	return m
}

func TestExtractDispatch(t *testing.T) {
	for _, dt := range models.DocumentTypes {
		_, err := For(dt)
		assert.NoError(t, err, dt)
	}

	_, err := Extract("unknown", grid.NewMatrix(0), "x.xlsx", Options{})
	assert.Error(t, err)
}

func TestScanLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxScanRows, Options{}.ScanLimit())
	assert.Equal(t, 7, Options{MaxScanRows: 7}.ScanLimit())
}

func TestExtractMCInfo(t *testing.T) {
	g := newGrid(map[cell]string{
		{10, 3}: "CD-0042",
		{20, 2}: "YS12", {20, 3}: "SN1",
		{21, 2}: "YS24", {21, 3}: "SN2",
		{22, 0}: "3", {22, 2}: "YV100", {22, 3}: "SN3",
		// row 23 blank in A-D but not the last row: scanning continues
		{23, 5}: "remark",
		{24, 1}: "only B",
	})

	res := ExtractMCInfo(g, "Site MC Info.xlsx", Options{})

	require.Len(t, res.Records, 4)
	assert.Equal(t, []string{"CD-0042", "YS12", "SN1"}, res.Records[0].Values)
	assert.Equal(t, []string{"CD-0042", "YV100", "SN3"}, res.Records[2].Values)
	assert.Equal(t, []string{"CD-0042", "", ""}, res.Records[3].Values, "row with content only in B is kept")
	for _, r := range res.Records {
		assert.Equal(t, "Site MC Info.xlsx", r.SourceFile)
	}
	assert.Zero(t, res.Tier)
}

func TestExtractMCInfoThreeRows(t *testing.T) {
	g := newGrid(map[cell]string{
		{10, 3}: "CD-1",
		{20, 2}: "A", {20, 3}: "1",
		{21, 2}: "B", {21, 3}: "2",
		{22, 2}: "C", {22, 3}: "3",
	})

	res := ExtractMCInfo(g, "MC Info.xlsx", Options{})

	require.Len(t, res.Records, 3)
	for _, r := range res.Records {
		assert.Equal(t, "CD-1", r.Values[0])
		assert.Equal(t, "MC Info.xlsx", r.SourceFile)
	}
}

func TestExtractMCInfoScanBound(t *testing.T) {
	cells := map[cell]string{{10, 3}: "CD"}
	for r := 20; r < 40; r++ {
		cells[cell{r, 2}] = "T"
	}

	res := ExtractMCInfo(newGrid(cells), "MC Info.xlsx", Options{MaxScanRows: 5})
	assert.Len(t, res.Records, 5)
}

func TestExtractRelocationTier1(t *testing.T) {
	g := newGrid(map[cell]string{
		{24, 3}: "FROM", {26, 3}: "TO",
		{32, 1}: "YS12", {32, 4}: "SN1", {32, 7}: "x",
		{33, 8}: "y", // kept even though type and serial are blank
		{34, 1}: "YS24", {34, 4}: "SN3", {34, 7}: "x",
		{36, 1}: "after stop", {36, 7}: "x",
	})

	res := ExtractRelocation(g, "relocation.xlsx", Options{})

	assert.Equal(t, 1, res.Tier)
	require.Len(t, res.Records, 3)
	assert.Equal(t, []string{"FROM", "TO", "YS12", "SN1"}, res.Records[0].Values)
	assert.Equal(t, []string{"FROM", "TO", "", ""}, res.Records[1].Values)
	assert.Equal(t, []string{"FROM", "TO", "YS24", "SN3"}, res.Records[2].Values)
}

func TestExtractRelocationTier2(t *testing.T) {
	g := newGrid(map[cell]string{
		{24, 3}: "FROM", {26, 3}: "TO",
		// row 32 has empty stop columns, so the first tier finds nothing
		{32, 1}: "ignored",
		{33, 1}: "YS12", {33, 4}: "SN1", {33, 7}: "x",
		{34, 8}: "y",
		{35, 4}: "SN2", {35, 8}: "y",
	})

	assert.Empty(t, relocationTier1(g, "r.xlsx", "FROM", "TO", Options{}))

	res := ExtractRelocation(g, "r.xlsx", Options{})

	assert.Equal(t, 2, res.Tier)
	require.Len(t, res.Records, 2)
	assert.Equal(t, []string{"FROM", "TO", "YS12", "SN1"}, res.Records[0].Values)
	assert.Equal(t, []string{"FROM", "TO", "", "SN2"}, res.Records[1].Values)
}

func TestExtractRelocationTier3(t *testing.T) {
	g := newGrid(map[cell]string{
		{24, 3}: "FROM", {26, 3}: "TO",
		{33, 1}: "YS12", {33, 9}: "z",
		{34, 4}: "SN1", {34, 9}: "z",
	})

	res := ExtractRelocation(g, "r.xlsx", Options{})

	assert.Equal(t, 3, res.Tier)
	require.Len(t, res.Records, 2)
	assert.Equal(t, []string{"FROM", "TO", "YS12", ""}, res.Records[0].Values)
	assert.Equal(t, []string{"FROM", "TO", "", "SN1"}, res.Records[1].Values)
}

func TestExtractRelocationTier3WideBound(t *testing.T) {
	cells := map[cell]string{}
	for r := 33; r < 180; r++ {
		cells[cell{r, 9}] = "z"
	}
	cells[cell{170, 1}] = "deep"

	res := ExtractRelocation(newGrid(cells), "r.xlsx", Options{})

	assert.Equal(t, 3, res.Tier)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "deep", res.Records[0].Values[2])
}

func TestExtractRelocationTier4(t *testing.T) {
	g := newGrid(map[cell]string{
		{24, 3}: "FROM", {26, 3}: "TO",
		{32, 1}: "YS12", {32, 4}: "SN1", {32, 6}: "g",
		{33, 6}: "g",
		{34, 4}: "SN2", {34, 6}: "g",
	})

	res := ExtractRelocation(g, "r.xlsx", Options{})

	assert.Equal(t, 4, res.Tier)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "SN2", res.Records[1].Values[3])
}

func TestRelocationFallbackTiersReachable(t *testing.T) {
	// Row 33 has H and I empty, so tier 1 finds nothing. Each later tier must
	// still see rows through its own start row or stop columns.
	tests := []struct {
		name  string
		tier  relocationTier
		cells map[cell]string
	}{
		{"tier 2 starts lower", relocationTier2, map[cell]string{{33, 1}: "YS12", {33, 7}: "h"}},
		{"tier 3 reads I and J", relocationTier3, map[cell]string{{33, 1}: "YS12", {33, 9}: "j"}},
		{"tier 4 reads G and H", relocationTier4, map[cell]string{{32, 1}: "YS12", {32, 6}: "g"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGrid(tt.cells)

			require.Empty(t, relocationTier1(g, "r.xlsx", "FROM", "TO", Options{}))
			records := tt.tier(g, "r.xlsx", "FROM", "TO", Options{})
			require.Len(t, records, 1)
			assert.Equal(t, "YS12", records[0].Values[2])
		})
	}
}

func TestExtractRelocationNothing(t *testing.T) {
	g := newGrid(map[cell]string{{24, 3}: "FROM", {26, 3}: "TO"})

	res := ExtractRelocation(g, "r.xlsx", Options{})

	assert.Zero(t, res.Tier)
	assert.Empty(t, res.Records)
}

func TestBracketCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"经销商：某某公司（#05910）", "#05910", true},
		{"Dealer (A) and (B-2 )", "B-2", true},
		{"混合（#123)", "#123", true},
		{"no brackets here", "", false},
		{"", "", false},
		{"()", "", false},
	}

	for _, tt := range tests {
		got, ok := BracketCode(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}
}

func TestExtractStockNormal(t *testing.T) {
	g := newGrid(map[cell]string{
		{14, 2}: "Distributor: ACME（#05910）",
		{20, 1}: "YS12", {20, 4}: "SN1", {20, 8}: "x",
		{21, 9}: "y", // no type or serial: skipped
		{22, 4}: "SN2", {22, 9}: "y",
		{24, 1}: "after stop", {24, 8}: "x",
	})

	res := ExtractStockNormal(g, "Stock Machine.xlsx", Options{})

	assert.Empty(t, res.Warnings)
	require.Len(t, res.Records, 2)
	assert.Equal(t, []string{"#05910", "YS12", "SN1"}, res.Records[0].Values)
	assert.Equal(t, []string{"#05910", "", "SN2"}, res.Records[1].Values)
}

func TestExtractStockNormalMissingBracket(t *testing.T) {
	g := newGrid(map[cell]string{
		{14, 2}: "Distributor ACME",
		{20, 1}: "YS12", {20, 8}: "x",
	})

	res := ExtractStockNormal(g, "Stock Machine.xlsx", Options{})

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, models.KindMissingBracket, res.Warnings[0].Kind)
	assert.Equal(t, "Stock Machine.xlsx", res.Warnings[0].File)
	assert.Contains(t, res.Warnings[0].Message, "Distributor ACME")
	require.Len(t, res.Records, 1)
	assert.Equal(t, "", res.Records[0].Values[0])
}

func TestExtractStockCombined(t *testing.T) {
	g := newGrid(map[cell]string{
		{14, 3}: "EU-1", {15, 3}: "DI-2",
		{21, 2}: "YS12", {21, 5}: "SN1", {21, 9}: "j",
		{22, 9}: "j",
		{23, 5}: "SN2", {23, 9}: "j",
		// column I alone does not keep the scan going
		{24, 2}: "stop", {24, 8}: "i",
	})

	res := ExtractStockCombined(g, "二合一.xlsx", Options{})

	require.Len(t, res.Records, 2)
	assert.Equal(t, []string{"EU-1", "DI-2", "YS12", "SN1"}, res.Records[0].Values)
	assert.Equal(t, []string{"EU-1", "DI-2", "", "SN2"}, res.Records[1].Values)
}

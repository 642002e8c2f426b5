package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/classify"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/output"
)

func writeStockFile(t *testing.T, dir, name string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for cell, v := range map[string]string{
		"C15": "代理商（#05910）",
		"B21": "YS12", "E21": "SN1", "J21": "x",
		"B22": "YS24", "E22": "SN2", "J22": "x",
	} {
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func resetFlags() {
	configPath, logLevel, outputPath, group, addr = "", "", "", "auto", ""
	asJSON, pretty = false, false
}

func TestExtractCommand(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	chdir(t, dir)
	in := writeStockFile(t, dir, "Stock Machine 05910.xlsx")
	out := filepath.Join(dir, "report.xlsx")
	notes := filepath.Join(dir, "readme.txt")
	require.NoError(t, os.WriteFile(notes, []byte("ignored"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"extract", "--log-level", "error", "-o", out, in, notes})
	require.NoError(t, cmd.Execute())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	tables, names, err := output.ReadWorkbook(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"STOCK MACHINE SHIPPING INFO"}, names)
	assert.Equal(t, [][]string{
		{"#05910", "YS12", "SN1", "Stock Machine 05910.xlsx"},
		{"#05910", "YS24", "SN2", "Stock Machine 05910.xlsx"},
	}, tables["STOCK MACHINE SHIPPING INFO"].Rows)
}

func TestExtractCommandRejectsNames(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	chdir(t, dir)
	in := writeStockFile(t, dir, "Stock Machine.xlsx")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"extract", "--log-level", "error", "--group", "mc", in})
	assert.Error(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(dir, "MC_Info_Data.xlsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestResolveOutput(t *testing.T) {
	assert.Equal(t, "Full_Consolidated_Report.xlsx", resolveOutput("", "", classify.GroupAuto))
	assert.Equal(t, filepath.Join("out", "Stock_Data.xlsx"), resolveOutput("out", "", classify.GroupStock))
	assert.Equal(t, filepath.Join("out", "r.xlsx"), resolveOutput("out", "r.xlsx", classify.GroupAuto))
	assert.Equal(t, filepath.Join("x", "r.xlsx"), resolveOutput("out", filepath.Join("x", "r.xlsx"), classify.GroupAuto))
}

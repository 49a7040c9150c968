package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// setExportFlags resets the package-level flag state to the command
// defaults before each test overrides what it needs.
func setExportFlags(input, format, out string) {
	exportFlags.input = input
	exportFlags.format = format
	exportFlags.out = out
	exportFlags.header = true
	exportFlags.sep = ""
	exportFlags.index = false
	exportFlags.layout = ""
	exportFlags.sheetName = ""
}

func writePayload(t *testing.T, dir, payload string) string {
	t.Helper()
	path := filepath.Join(dir, "series.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestRunExport_CSV(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{"name":"prices","dtype":"int64","values":[1,2,3]}`)
	out := filepath.Join(dir, "prices.csv")

	setExportFlags(input, "csv", out)
	require.NoError(t, runExport(nil, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "prices\n1\n2\n3", string(data))
}

func TestRunExport_CSVOptions(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{"name":"prices","dtype":"int64","values":[1,2]}`)
	out := filepath.Join(dir, "prices.csv")

	setExportFlags(input, "csv", out)
	exportFlags.header = false
	exportFlags.sep = ";"
	exportFlags.index = true
	require.NoError(t, runExport(nil, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "0;1\n1;2", string(data))
}

func TestRunExport_JSONRowLayout(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{"name":"prices","dtype":"int64","values":[1,2,3]}`)
	out := filepath.Join(dir, "prices.json")

	setExportFlags(input, "json", out)
	exportFlags.layout = "row"
	require.NoError(t, runExport(nil, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, float64(1), rows[0]["prices"])
	assert.Equal(t, float64(3), rows[2]["prices"])
}

func TestRunExport_Excel(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{"name":"prices","dtype":"int64","values":[10,20]}`)
	out := filepath.Join(dir, "report.xlsx")

	setExportFlags(input, "xlsx", out)
	exportFlags.sheetName = "Prices"
	require.NoError(t, runExport(nil, nil))

	wb, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer wb.Close()

	header, err := wb.GetCellValue("Prices", "A1")
	require.NoError(t, err)
	assert.Equal(t, "prices", header)

	first, err := wb.GetCellValue("Prices", "A2")
	require.NoError(t, err)
	assert.Equal(t, "10", first)
}

func TestRunExport_DefaultOut(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{"name":"prices","dtype":"int64","values":[1]}`)

	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })

	setExportFlags(input, "csv", "")
	require.NoError(t, runExport(nil, nil))

	data, err := os.ReadFile(filepath.Join(dir, "prices.csv"))
	require.NoError(t, err)
	assert.Equal(t, "prices\n1", string(data))
}

func TestRunExport_Stdin(t *testing.T) {
	dir := t.TempDir()
	path := writePayload(t, dir, `{"name":"prices","dtype":"int64","values":[7]}`)
	out := filepath.Join(dir, "prices.csv")

	f, err := os.Open(path)
	require.NoError(t, err)
	orig := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = orig
		f.Close()
	})

	setExportFlags("-", "csv", out)
	require.NoError(t, runExport(nil, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "prices\n7", string(data))
}

func TestRunExport_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{"name":"prices","dtype":"int64","values":[1]}`)

	setExportFlags(input, "pdf", filepath.Join(dir, "out.pdf"))
	err := runExport(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestRunExport_BadSep(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{"name":"prices","dtype":"int64","values":[1]}`)

	setExportFlags(input, "csv", filepath.Join(dir, "out.csv"))
	exportFlags.sep = "ab"
	err := runExport(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single character")
}

func TestRunExport_BadDType(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{"name":"prices","dtype":"int32","values":[1]}`)

	setExportFlags(input, "csv", filepath.Join(dir, "out.csv"))
	err := runExport(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dtype")
}

func TestRunExport_MissingInput(t *testing.T) {
	setExportFlags(filepath.Join(t.TempDir(), "nope.json"), "csv", "")
	err := runExport(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read payload")
}

func TestRunExport_MalformedPayload(t *testing.T) {
	dir := t.TempDir()
	input := writePayload(t, dir, `{not json`)

	setExportFlags(input, "csv", filepath.Join(dir, "out.csv"))
	err := runExport(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode payload")
}

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"", nil},
		{"   ", nil},
		{"42", 42.0},
		{" 3.5 ", 3.5},
		{"-7", -7.0},
		{"1e3", 1000.0},
		{"$10", "$10"},
		{"NaN", "NaN"},
		{"-Inf", "-Inf"},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseValue(tt.in), "input %q", tt.in)
	}
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t, "Region", CleanHeader(` "Region" `))
	assert.Equal(t, "Name", CleanHeader("\ufeffName"))
	assert.Equal(t, "", CleanHeader(`""`))
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "sales", FileStem("/tmp/x/sales.xlsx"))
	assert.Equal(t, "report.v2", FileStem(`C:\data\report.v2.csv`))
	assert.Equal(t, ".hidden", FileStem(".hidden"))
	assert.Equal(t, "noext", FileStem("noext"))
}

func TestOutputManager(t *testing.T) {
	base := filepath.Join(t.TempDir(), "uploads")
	om := NewOutputManager(base)
	require.NoError(t, om.EnsureOutputDirExists())

	path, err := om.GetOutputFilePath("abc", "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "abc", "passwd"), path)

	_, err = om.GetOutputFilePath("abc", "/")
	assert.Error(t, err)

	assert.Equal(t, "/downloads/abc/out.xlsx", om.GetDownloadURL("abc", "dir/out.xlsx"))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, om.RemoveUploadDir("abc"))
	_, err = os.Stat(om.UploadDir("abc"))
	assert.True(t, os.IsNotExist(err))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ContentType("a.XLSX"))
	assert.Equal(t, "text/csv", ContentType("a.csv"))
	assert.Equal(t, "application/octet-stream", ContentType("a.xls"))
	assert.Equal(t, "application/octet-stream", ContentType("a.json"))
}

package ingest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extract.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVParsesRows(t *testing.T) {
	path := writeCSV(t, "parameter,value,deph,visit_key,sea_basin,visit_month,lmqnt_val\n"+
		"AMON,0.5,10,V1,Baltic,6,0.1\n"+
		"AMON,,20,V1,Baltic,6,\n")

	frame, err := NewReader(path, "").Read()
	require.NoError(t, err)
	require.Equal(t, 2, frame.Len())

	rows := frame.Rows()
	assert.Equal(t, "AMON", rows[0].Parameter)
	assert.Equal(t, 0.5, rows[0].Value)
	assert.Equal(t, "Baltic", rows[0].SeaBasin)
	assert.Equal(t, 6, rows[0].VisitMonth)
	assert.True(t, math.IsNaN(rows[1].Value))
}

func TestReadMissingColumnErrors(t *testing.T) {
	path := writeCSV(t, "parameter,value\nAMON,1\n")
	_, err := NewReader(path, "").Read()
	assert.Error(t, err)
}

func TestReadMissingFileErrors(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.csv"), "").Read()
	assert.Error(t, err)
}

package fetcher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSheet struct {
	Province string `json:"province_name"`
	Number   int    `json:"constituency_number"`
}

func TestDecodeJSONArray(t *testing.T) {
	input := `[{"province_name":"ลำปาง","constituency_number":1},{"province_name":"ตาก","constituency_number":2}]`

	ch, errCh := DecodeJSONArray[testSheet](context.Background(), strings.NewReader(input))

	var sheets []testSheet
	for s := range ch {
		sheets = append(sheets, s)
	}
	for err := range errCh {
		require.NoError(t, err)
	}

	require.Len(t, sheets, 2)
	assert.Equal(t, testSheet{Province: "ลำปาง", Number: 1}, sheets[0])
	assert.Equal(t, testSheet{Province: "ตาก", Number: 2}, sheets[1])
}

func TestReadJSONArray_KeepsNumbersExact(t *testing.T) {
	input := `[{"เขตเลือกตั้งที่": 3, "ผู้มาใช้สิทธิ์": 98765432101}]`
	rows, err := ReadJSONArray[map[string]any](context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, json.Number("3"), rows[0]["เขตเลือกตั้งที่"])
	assert.Equal(t, json.Number("98765432101"), rows[0]["ผู้มาใช้สิทธิ์"])
}

func TestReadJSONArray_Empty(t *testing.T) {
	for _, input := range []string{"[]", ""} {
		rows, err := ReadJSONArray[testSheet](context.Background(), strings.NewReader(input))
		require.NoError(t, err)
		assert.Empty(t, rows)
	}
}

func TestDecodeJSONArray_ContextCancellation(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := range 10000 {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"province_name":"ตาก","constituency_number":1}`)
	}
	sb.WriteString("]")

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)

	_, err := ReadJSONArray[testSheet](ctx, strings.NewReader(sb.String()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}

func TestDecodeJSONArray_InvalidFormat(t *testing.T) {
	_, err := ReadJSONArray[testSheet](context.Background(), strings.NewReader(`{"province_name":"ตาก"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected '['")
}

func TestDecodeJSONObject(t *testing.T) {
	s, err := DecodeJSONObject[testSheet](strings.NewReader(`{"province_name":"ตาก","constituency_number":4}`))
	require.NoError(t, err)
	assert.Equal(t, 4, s.Number)
}

func TestDecodeJSONObject_Invalid(t *testing.T) {
	_, err := DecodeJSONObject[testSheet](strings.NewReader(`not json`))
	require.Error(t, err)
}

func TestWriteAndReadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, WriteJSONFile(path, testSheet{Province: "ลำปาง", Number: 2}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := ReadJSONFile[testSheet](path)
	require.NoError(t, err)
	assert.Equal(t, testSheet{Province: "ลำปาง", Number: 2}, *got)
}

func TestWriteJSONFile_Indented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSONFile(path, []int{1}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]", string(data))
}

func TestReadJSONFile_Missing(t *testing.T) {
	_, err := ReadJSONFile[testSheet](filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

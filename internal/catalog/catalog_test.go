package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/election-audit/audit-cli/internal/model"
)

func TestPalette_Color(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "#f47521", p.Color("ประชาชน"))
	assert.Equal(t, "#da3731", p.Color("เพื่อไทย"))
	assert.Equal(t, "#94a3b8", p.Color("พรรคใหม่"))
	assert.Equal(t, "#94a3b8", p.Color(""))
	assert.Equal(t, "#94a3b8", p.Color("Unknown"))
}

func TestPalette_Entries(t *testing.T) {
	entries := DefaultPalette().Entries()
	require.Len(t, entries, len(defaultParties)+1)
	assert.Equal(t, PartyColor{Party: "ประชาชน", Color: "#f47521"}, entries[0])
	assert.Equal(t, PartyColor{Party: OtherParty, Color: "#94a3b8"}, entries[len(entries)-1])
}

func TestPalette_SetOtherChangesFallback(t *testing.T) {
	p := NewPalette("#000000")
	p.Set(OtherParty, "#111111")
	assert.Equal(t, "#111111", p.Color("x"))
	assert.Len(t, p.Entries(), 1)
}

func TestRegions_DefaultCoversAllProvinces(t *testing.T) {
	r := DefaultRegions()
	assert.Equal(t, 77, r.Len())
	assert.Len(t, r.Names(), 6)
	assert.Equal(t, "ภาคเหนือ", r.Of("ลำปาง"))
	assert.Equal(t, "ภาคตะวันตก", r.Of("ตาก"))
	assert.Equal(t, "ภาคกลาง", r.Of("กรุงเทพมหานคร"))
	assert.Equal(t, UnknownRegion, r.Of("Lampang"))
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "#f47521", c.Palette.Color("ประชาชน"))
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
parties:
  - name: ประชาชน
    color: "#ff8800"
  - name: พรรคใหม่
    color: "#123456"
  - name: Other
    color: "#cccccc"
regions:
  - name: ภาคใต้ตอนล่าง
    provinces: [ปัตตานี, ยะลา, นราธิวาส]
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#ff8800", c.Palette.Color("ประชาชน"))
	assert.Equal(t, "#123456", c.Palette.Color("พรรคใหม่"))
	assert.Equal(t, "#cccccc", c.Palette.Color("ไม่มีสี"))
	assert.Equal(t, "ภาคใต้ตอนล่าง", c.Regions.Of("ยะลา"))
	assert.Equal(t, "ภาคใต้", c.Regions.Of("สงขลา"))
	assert.Len(t, c.Regions.Names(), 7)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("parties:\n  - name: x\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs name and color")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("parties: [:"), 0o644))
	_, err = Load(broken)
	require.Error(t, err)
}

func TestLayoutTemplate(t *testing.T) {
	rows := []model.RawRow{
		{"จังหวัด": "ลำปาง"},
		{"จังหวัด": " ตาก "},
		{"จังหวัด": "ลำปาง"},
		{"จังหวัด": ""},
		{"อื่น": "x"},
	}
	layout := LayoutTemplate(rows, "จังหวัด")
	assert.Equal(t, Layout{{Province: "ลำปาง"}, {Province: "ตาก"}}, layout)

	b, err := json.Marshal(layout)
	require.NoError(t, err)
	assert.Equal(t, `{"ลำปาง":{"x":0,"y":0},"ตาก":{"x":0,"y":0}}`, string(b))
}

func TestLayout_YAML(t *testing.T) {
	layout := Layout{{Province: "ลำปาง", X: 2, Y: 1}, {Province: "ตาก"}}
	b, err := yaml.Marshal(layout)
	require.NoError(t, err)

	var got map[string]map[string]int
	require.NoError(t, yaml.Unmarshal(b, &got))
	assert.Equal(t, map[string]map[string]int{
		"ลำปาง": {"x": 2, "y": 1},
		"ตาก":   {"x": 0, "y": 0},
	}, got)
	assert.Less(t, strings.Index(string(b), "ลำปาง"), strings.Index(string(b), "ตาก"))
}

func TestLayout_UnmarshalJSONKeepsOrder(t *testing.T) {
	var l Layout
	require.NoError(t, json.Unmarshal([]byte(`{"ตาก":{"x":3,"y":4},"ลำปาง":{"x":1,"y":0}}`), &l))
	assert.Equal(t, Layout{{Province: "ตาก", X: 3, Y: 4}, {Province: "ลำปาง", X: 1}}, l)

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &l))
}

func TestLayout_Empty(t *testing.T) {
	b, err := json.Marshal(LayoutTemplate(nil, "จังหวัด"))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

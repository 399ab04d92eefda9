package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/normalize"
)

// Tile is a province position on the tile map.
type Tile struct {
	Province string
	X, Y     int
}

// Layout is an ordered set of tiles. It marshals to an object keyed by
// province, in tile order.
type Layout []Tile

// LayoutTemplate returns one tile at (0,0) per distinct non-empty province,
// in first-seen order. The template is filled in by hand afterwards.
func LayoutTemplate(rows []model.RawRow, provinceColumn string) Layout {
	seen := make(map[string]bool)
	var out Layout
	for _, row := range rows {
		p := normalize.Text(row[provinceColumn])
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, Tile{Province: p})
	}
	return out
}

type tilePos struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// MarshalJSON writes {"<province>": {"x": 0, "y": 0}, ...}.
func (l Layout) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(t.Province)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(tilePos{X: t.X, Y: t.Y})
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the same mapping as MarshalJSON.
func (l Layout) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range l {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: t.Province},
			&yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle, Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "x"},
				{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(t.X)},
				{Kind: yaml.ScalarNode, Value: "y"},
				{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(t.Y)},
			}},
		)
	}
	return root, nil
}

// UnmarshalJSON reads a filled-in layout. Object order is preserved.
func (l *Layout) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "catalog: read layout")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return eris.Errorf("catalog: layout must be an object, got %v", tok)
	}
	var out Layout
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "catalog: read layout key")
		}
		key, _ := tok.(string)
		var pos tilePos
		if err := dec.Decode(&pos); err != nil {
			return eris.Wrapf(err, "catalog: decode tile %q", key)
		}
		out = append(out, Tile{Province: key, X: pos.X, Y: pos.Y})
	}
	*l = out
	return nil
}

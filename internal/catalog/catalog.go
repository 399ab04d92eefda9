package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Catalog bundles the lookup tables.
type Catalog struct {
	Palette *Palette
	Regions *Regions
}

// Default returns the built-in tables.
func Default() *Catalog {
	return &Catalog{Palette: DefaultPalette(), Regions: DefaultRegions()}
}

// fileFormat is the YAML override file:
//
//	parties:
//	  - name: ประชาชน
//	    color: "#f47521"
//	  - name: Other
//	    color: "#94a3b8"
//	regions:
//	  - name: ภาคเหนือ
//	    provinces: [เชียงใหม่, ลำปาง]
type fileFormat struct {
	Parties []PartyColor `yaml:"parties"`
	Regions []Region     `yaml:"regions"`
}

// Load returns the built-in tables extended by the YAML file at path.
// Entries in the file replace built-in entries of the same name. An empty
// path returns the defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	if err := c.Apply(data); err != nil {
		return nil, eris.Wrapf(err, "catalog: load %s", path)
	}
	return c, nil
}

// Apply merges a YAML document into the catalog.
func (c *Catalog) Apply(data []byte) error {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return eris.Wrap(err, "catalog: parse yaml")
	}
	for _, pc := range f.Parties {
		if pc.Party == "" || pc.Color == "" {
			return eris.Errorf("catalog: party entry needs name and color (got %q, %q)", pc.Party, pc.Color)
		}
		c.Palette.Set(pc.Party, pc.Color)
	}
	for _, reg := range f.Regions {
		if reg.Name == "" {
			return eris.New("catalog: region entry needs a name")
		}
		c.Regions.Add(reg)
	}
	return nil
}

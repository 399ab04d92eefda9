// Package catalog holds the lookup tables the dashboard needs besides the
// reconciled artifacts: party colours, province regions and the tile-map
// layout template.
package catalog

// OtherParty is the palette entry used for parties without a colour.
const OtherParty = "Other"

// PartyColor is one palette entry.
type PartyColor struct {
	Party string `json:"party" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// Palette maps party names to display colours with an explicit fallback.
type Palette struct {
	order    []string
	colors   map[string]string
	fallback string
}

var defaultParties = []PartyColor{
	{"ประชาชน", "#f47521"},
	{"เพื่อไทย", "#da3731"},
	{"ภูมิใจไทย", "#203978"},
	{"พลังประชารัฐ", "#1f4888"},
	{"รวมไทยสร้างชาติ", "#1e3868"},
	{"ประชาธิปัตย์", "#00a3e8"},
	{"ชาติไทยพัฒนา", "#ff9eb5"},
	{"ประชาชาติ", "#a8784d"},
	{"ไทยสร้างไทย", "#005baa"},
	{"ชาติพัฒนากล้า", "#f19e38"},
	{"กล้าธรรม", "#22c55e"},
	{"เสรีรวมไทย", "#eed341"},
	{"เป็นธรรม", "#0097a8"},
	{"ไทรวมพลัง", "#ec4899"},
}

const defaultOtherColor = "#94a3b8"

// DefaultPalette returns the dashboard palette.
func DefaultPalette() *Palette {
	p := NewPalette(defaultOtherColor)
	for _, pc := range defaultParties {
		p.Set(pc.Party, pc.Color)
	}
	return p
}

// NewPalette returns an empty palette whose fallback is the given colour.
func NewPalette(fallback string) *Palette {
	return &Palette{colors: make(map[string]string), fallback: fallback}
}

// Set adds or replaces a party colour. Setting OtherParty changes the
// fallback.
func (p *Palette) Set(party, color string) {
	if party == OtherParty {
		p.fallback = color
		return
	}
	if _, ok := p.colors[party]; !ok {
		p.order = append(p.order, party)
	}
	p.colors[party] = color
}

// Color returns the party's colour or the fallback.
func (p *Palette) Color(party string) string {
	if c, ok := p.colors[party]; ok {
		return c
	}
	return p.fallback
}

// Fallback returns the colour used for unknown parties.
func (p *Palette) Fallback() string { return p.fallback }

// Entries lists the palette in insertion order, ending with OtherParty.
func (p *Palette) Entries() []PartyColor {
	out := make([]PartyColor, 0, len(p.order)+1)
	for _, party := range p.order {
		out = append(out, PartyColor{Party: party, Color: p.colors[party]})
	}
	return append(out, PartyColor{Party: OtherParty, Color: p.fallback})
}

package catalog

// UnknownRegion is reported for provinces missing from the region table.
const UnknownRegion = "ไม่ระบุ"

// Region groups provinces for the province analysis filter.
type Region struct {
	Name      string   `json:"name" yaml:"name"`
	Provinces []string `json:"provinces" yaml:"provinces"`
}

// Regions maps provinces to regions.
type Regions struct {
	order      []string
	byProvince map[string]string
}

// Six-region grouping used by the national statistics office.
var defaultRegions = []Region{
	{Name: "ภาคเหนือ", Provinces: []string{
		"เชียงใหม่", "เชียงราย", "ลำปาง", "ลำพูน", "แม่ฮ่องสอน", "น่าน", "พะเยา", "แพร่", "อุตรดิตถ์",
	}},
	{Name: "ภาคตะวันออกเฉียงเหนือ", Provinces: []string{
		"กาฬสินธุ์", "ขอนแก่น", "ชัยภูมิ", "นครพนม", "นครราชสีมา", "บึงกาฬ", "บุรีรัมย์", "มหาสารคาม",
		"มุกดาหาร", "ยโสธร", "ร้อยเอ็ด", "เลย", "ศรีสะเกษ", "สกลนคร", "สุรินทร์", "หนองคาย",
		"หนองบัวลำภู", "อำนาจเจริญ", "อุดรธานี", "อุบลราชธานี",
	}},
	{Name: "ภาคกลาง", Provinces: []string{
		"กรุงเทพมหานคร", "กำแพงเพชร", "ชัยนาท", "นครนายก", "นครปฐม", "นครสวรรค์", "นนทบุรี",
		"ปทุมธานี", "พระนครศรีอยุธยา", "พิจิตร", "พิษณุโลก", "เพชรบูรณ์", "ลพบุรี", "สมุทรปราการ",
		"สมุทรสงคราม", "สมุทรสาคร", "สิงห์บุรี", "สุโขทัย", "สุพรรณบุรี", "สระบุรี", "อ่างทอง", "อุทัยธานี",
	}},
	{Name: "ภาคตะวันออก", Provinces: []string{
		"จันทบุรี", "ฉะเชิงเทรา", "ชลบุรี", "ตราด", "ปราจีนบุรี", "ระยอง", "สระแก้ว",
	}},
	{Name: "ภาคตะวันตก", Provinces: []string{
		"กาญจนบุรี", "ตาก", "ประจวบคีรีขันธ์", "เพชรบุรี", "ราชบุรี",
	}},
	{Name: "ภาคใต้", Provinces: []string{
		"กระบี่", "ชุมพร", "ตรัง", "นครศรีธรรมราช", "นราธิวาส", "ปัตตานี", "พังงา", "พัทลุง",
		"ภูเก็ต", "ระนอง", "สตูล", "สงขลา", "สุราษฎร์ธานี", "ยะลา",
	}},
}

// DefaultRegions returns the six-region table covering all 77 provinces.
func DefaultRegions() *Regions {
	r := NewRegions()
	for _, reg := range defaultRegions {
		r.Add(reg)
	}
	return r
}

// NewRegions returns an empty table.
func NewRegions() *Regions {
	return &Regions{byProvince: make(map[string]string)}
}

// Add assigns the region's provinces to it. A province already assigned
// elsewhere moves to this region.
func (r *Regions) Add(reg Region) {
	known := false
	for _, name := range r.order {
		if name == reg.Name {
			known = true
			break
		}
	}
	if !known {
		r.order = append(r.order, reg.Name)
	}
	for _, p := range reg.Provinces {
		r.byProvince[p] = reg.Name
	}
}

// Of returns the province's region, or UnknownRegion.
func (r *Regions) Of(province string) string {
	if reg, ok := r.byProvince[province]; ok {
		return reg
	}
	return UnknownRegion
}

// Names lists region names in insertion order.
func (r *Regions) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of provinces with a region.
func (r *Regions) Len() int { return len(r.byProvince) }

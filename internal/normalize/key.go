package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// JoinKey identifies one electoral district across source tables.
type JoinKey struct {
	Province string
	District int
}

// Key builds the join key for a province name and district number. The
// province is compared exactly after trimming; there is no matching across
// English and Thai renderings of the same name.
func Key(province, district any) JoinKey {
	return JoinKey{
		Province: Text(province),
		District: Int(district),
	}
}

// Valid reports whether the key names a real district.
func (k JoinKey) Valid() bool {
	return k.Province != "" && k.District >= 1
}

func (k JoinKey) String() string {
	return k.Province + "-" + strconv.Itoa(k.District)
}

// Count is an integer that decodes from a JSON number, a numeric string or
// null. Anything unparseable decodes to 0 instead of failing the document.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		*c = 0
		return nil
	}
	*c = Count(Int(raw))
	return nil
}

// Int returns the count as an int.
func (c Count) Int() int { return int(c) }

package repository

import "encoding/json"

// jsonb columns are written as empty JSON arrays rather than SQL NULL so
// reads can always unmarshal.
func jsonbStrings(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

func jsonbFloats(v []float64) ([]byte, error) {
	if v == nil {
		v = []float64{}
	}
	return json.Marshal(v)
}

func scanJSONStrings(raw []byte, out *[]string) error {
	if len(raw) == 0 {
		*out = []string{}
		return nil
	}
	return json.Unmarshal(raw, out)
}

func scanJSONFloats(raw []byte, out *[]float64) error {
	if len(raw) == 0 {
		*out = []float64{}
		return nil
	}
	return json.Unmarshal(raw, out)
}

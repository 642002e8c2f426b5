package output

import (
	"encoding/json"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
)

// dataset is the JSON shape of one record set: rows as header-keyed objects.
type dataset struct {
	Type   models.DocumentType `json:"type"`
	Sheet  string              `json:"sheet"`
	Header []string            `json:"header"`
	Rows   []map[string]string `json:"rows"`
}

// ToJSON serializes record sets, skipping empty ones.
func ToJSON(sets []models.RecordSet, pretty bool) ([]byte, error) {
	out := make([]dataset, 0, len(sets))
	for _, set := range sets {
		if set.Empty() {
			continue
		}
		header := set.Type.Header()
		ds := dataset{Type: set.Type, Sheet: set.Type.SheetName(), Header: header}
		for _, row := range set.Rows() {
			obj := make(map[string]string, len(header))
			for i, h := range header {
				if i < len(row) {
					obj[h] = row[i]
				}
			}
			ds.Rows = append(ds.Rows, obj)
		}
		out = append(out, ds)
	}
	if pretty {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

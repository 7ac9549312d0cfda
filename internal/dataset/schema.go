package dataset

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// ExcludedColumns are numeric technical columns that never count as commodities.
var ExcludedColumns = []string{"Tahun", "Bulan_num", "bulan_num", "latitude", "longitude", "SPHP_covered"}

// Schema names the columns a price table is expected to carry. Detection
// heuristics only apply when a declared column is absent from the file.
type Schema struct {
	PeriodColumn        string   `yaml:"period_column" validate:"required"`
	LocationColumn      string   `yaml:"location_column"`
	LatitudeColumn      string   `yaml:"latitude_column" validate:"required"`
	LongitudeColumn     string   `yaml:"longitude_column" validate:"required,nefield=LatitudeColumn"`
	ExtraExcludeColumns []string `yaml:"extra_exclude_columns" validate:"dive,required"`
}

func DefaultSchema() Schema {
	return Schema{
		PeriodColumn:    "Periode",
		LocationColumn:  "Kab/Kota",
		LatitudeColumn:  "latitude",
		LongitudeColumn: "longitude",
	}
}

// LoadSchema reads a YAML schema descriptor. Unset fields keep their defaults.
func LoadSchema(path string) (Schema, error) {
	s := DefaultSchema()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read schema: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s Schema) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}

// excluded reports whether col is a technical column under this schema
func (s Schema) excluded(col string) bool {
	if col == s.PeriodColumn || col == s.LatitudeColumn || col == s.LongitudeColumn {
		return true
	}
	for _, c := range ExcludedColumns {
		if c == col {
			return true
		}
	}
	for _, c := range s.ExtraExcludeColumns {
		if c == col {
			return true
		}
	}
	return false
}

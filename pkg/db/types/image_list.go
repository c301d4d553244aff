package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Image is a single hosted listing photo.
type Image struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// ImageList stores listing photos as a JSON document column.
type ImageList []Image

func (l *ImageList) Scan(src any) error {
	if src == nil {
		*l = ImageList{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("ImageList: unsupported Scan type %T", src)
	}

	if len(raw) == 0 {
		*l = ImageList{}
		return nil
	}

	var out []Image
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("ImageList: decode: %w", err)
	}
	*l = out
	return nil
}

func (l ImageList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]Image(l))
	if err != nil {
		return nil, fmt.Errorf("ImageList: encode: %w", err)
	}
	return string(raw), nil
}

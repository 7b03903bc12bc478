package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ProductStatus represents the stock status of a catalog product
type ProductStatus int

const (
	ProductStatusActive     ProductStatus = 0
	ProductStatusOutOfStock ProductStatus = 1
	ProductStatusArchived   ProductStatus = 2
)

func (s ProductStatus) String() string {
	return [...]string{"active", "out_of_stock", "archived"}[s]
}

func (s ProductStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ProductStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ProductStatus(i)
		return nil
	}
	switch str {
	case "active":
		*s = ProductStatusActive
	case "out_of_stock":
		*s = ProductStatusOutOfStock
	case "archived":
		*s = ProductStatusArchived
	}
	return nil
}

func (s ProductStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ProductStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ProductStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ProductStatus(v)
	case int:
		*s = ProductStatus(v)
	}
	return nil
}

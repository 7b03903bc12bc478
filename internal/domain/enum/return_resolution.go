package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReturnResolution represents how a product return is settled
type ReturnResolution int

const (
	ReturnResolutionRefund   ReturnResolution = 0
	ReturnResolutionExchange ReturnResolution = 1
	ReturnResolutionCredit   ReturnResolution = 2
)

func (r ReturnResolution) String() string {
	return [...]string{"refund", "exchange", "credit"}[r]
}

func (r ReturnResolution) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *ReturnResolution) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = ReturnResolution(i)
		return nil
	}
	switch str {
	case "refund":
		*r = ReturnResolutionRefund
	case "exchange":
		*r = ReturnResolutionExchange
	case "credit":
		*r = ReturnResolutionCredit
	}
	return nil
}

// ValidReturnResolution reports whether str names a known resolution.
func ValidReturnResolution(str string) bool {
	switch str {
	case "refund", "exchange", "credit":
		return true
	}
	return false
}

func (r ReturnResolution) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *ReturnResolution) Scan(value interface{}) error {
	if value == nil {
		*r = ReturnResolutionRefund
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = ReturnResolution(v)
	case int:
		*r = ReturnResolution(v)
	}
	return nil
}

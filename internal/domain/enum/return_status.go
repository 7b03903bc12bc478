package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReturnStatus represents the lifecycle state of a product return
type ReturnStatus int

const (
	ReturnStatusPending   ReturnStatus = 0
	ReturnStatusApproved  ReturnStatus = 1
	ReturnStatusCompleted ReturnStatus = 2
	ReturnStatusRejected  ReturnStatus = 3
)

func (s ReturnStatus) String() string {
	return [...]string{"pending", "approved", "completed", "rejected"}[s]
}

func (s ReturnStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReturnStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReturnStatus(i)
		return nil
	}
	switch str {
	case "pending":
		*s = ReturnStatusPending
	case "approved":
		*s = ReturnStatusApproved
	case "completed":
		*s = ReturnStatusCompleted
	case "rejected":
		*s = ReturnStatusRejected
	}
	return nil
}

func (s ReturnStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReturnStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReturnStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReturnStatus(v)
	case int:
		*s = ReturnStatus(v)
	}
	return nil
}

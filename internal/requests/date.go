package requests

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date on the wire, serialized as "YYYY-MM-DD". JSON null
// into a *Date field leaves the pointer nil; anything else must parse, so a
// malformed date fails at bind time like any other unreadable body.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s (expected \"%s\")", s, dateLayout)
	}
	t, err := time.ParseInLocation(dateLayout, s[1:len(s)-1], time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %s (expected \"%s\")", s, dateLayout)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// TimePtr returns the underlying time of an optional date, or nil.
func TimePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

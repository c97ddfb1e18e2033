package vsware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// ID is a portal identifier given either as a number or as a string.
// It is interpolated into paths verbatim.
type ID struct {
	value   string
	numeric bool
}

func IntID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10), numeric: true}
}

func StringID(s string) ID {
	return ID{value: s}
}

func (id ID) String() string {
	return id.value
}

// MarshalJSON encodes numeric IDs as JSON numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// DateParam is a timetable bound: either a time or an already formatted string.
type DateParam struct {
	t      time.Time
	s      string
	isTime bool
}

func Date(t time.Time) DateParam {
	return DateParam{t: t, isTime: true}
}

func DateString(s string) DateParam {
	return DateParam{s: s}
}

func (d DateParam) String() string {
	if d.isTime {
		return FormatTimetableDate(d.t)
	}
	return d.s
}

// FormatTimetableDate renders t as YEAR-MONTH-DAY without zero padding, e.g. 2024-1-9.
func FormatTimetableDate(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

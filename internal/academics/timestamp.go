package academics

import (
	"encoding/json"
	"strings"
	"time"
)

// Date is the result of normalizing a raw date-like value. The zero value is
// the invalid date; callers must check Valid before using Time.
type Date struct {
	t     time.Time
	valid bool
}

// Invalid is the marker returned for values that cannot be read as a date.
var Invalid = Date{}

// ValidDate wraps t as a normalized date. A zero time is not a date.
func ValidDate(t time.Time) Date {
	if t.IsZero() {
		return Invalid
	}
	return Date{t: t, valid: true}
}

// Valid reports whether d carries a calendar date.
func (d Date) Valid() bool { return d.valid }

// Time returns the underlying instant and whether it is valid.
func (d Date) Time() (time.Time, bool) { return d.t, d.valid }

// Day formats d as YYYY-MM-DD, or "" when invalid.
func (d Date) Day() string {
	if !d.valid {
		return ""
	}
	return d.t.Format(dayLayout)
}

// Between reports whether d lies in [start, end] inclusive. Invalid dates are
// never inside a range.
func (d Date) Between(start, end time.Time) bool {
	if !d.valid {
		return false
	}
	return !d.t.Before(start) && !d.t.After(end)
}

// DateConverter is implemented by store wrappers that know their own instant,
// such as bson primitive.DateTime.
type DateConverter interface {
	Time() time.Time
}

// asTimeConverter matches protobuf timestamps.
type asTimeConverter interface {
	AsTime() time.Time
}

const dayLayout = "2006-01-02"

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	dayLayout,
	"2006/01/02",
	"2006-01",
	"2006",
	"1/2/2006",
	"1/2/2006, 3:04:05 PM",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.UnixDate,
}

// Normalize coerces value into a Date expressed in UTC. See NormalizeIn.
func Normalize(value any) Date {
	return NormalizeIn(value, time.UTC)
}

// NormalizeIn coerces value into a Date expressed in loc, so one instant lands
// on the same day whatever its storage form. Native times come first, then
// converters, then strings and numbers (numbers are Unix milliseconds).
// Strings without a zone are read as wall time in loc. Anything else yields
// Invalid; NormalizeIn never panics. A nil loc means UTC.
func NormalizeIn(value any, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return normalize(value, loc).In(loc)
}

// In expresses d in loc. Invalid dates stay invalid.
func (d Date) In(loc *time.Location) Date {
	if !d.valid {
		return d
	}
	return Date{t: d.t.In(loc), valid: true}
}

func normalize(value any, loc *time.Location) Date {
	switch v := value.(type) {
	case nil:
		return Invalid
	case Date:
		return v
	case time.Time:
		return ValidDate(v)
	case *time.Time:
		if v == nil {
			return Invalid
		}
		return ValidDate(*v)
	}

	if d, ok := convert(value); ok {
		return d
	}

	switch v := value.(type) {
	case string:
		return parseString(v, loc)
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return Invalid
		}
		return fromMillis(ms)
	case int:
		return fromMillis(int64(v))
	case int32:
		return fromMillis(int64(v))
	case int64:
		return fromMillis(v)
	case float64:
		return fromMillis(int64(v))
	default:
		return Invalid
	}
}

func convert(value any) (d Date, ok bool) {
	defer func() {
		// a nil pointer behind a converter interface must not escape.
		if recover() != nil {
			d, ok = Invalid, true
		}
	}()

	switch v := value.(type) {
	case DateConverter:
		return ValidDate(v.Time()), true
	case asTimeConverter:
		return ValidDate(v.AsTime()), true
	}
	return Invalid, false
}

func parseString(raw string, loc *time.Location) Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Invalid
	}

	for _, layout := range stringLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ValidDate(t)
		}
	}
	return Invalid
}

func fromMillis(ms int64) Date {
	if ms <= 0 {
		return Invalid
	}
	return ValidDate(time.UnixMilli(ms))
}

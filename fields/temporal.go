package fields

import (
	"time"

	marzipan "github.com/marzipan-go/marzipan"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// DateTime serializes time.Time values to a layout string and back. The
// layout comes from the Format option, then the schema-wide DateFormat, then
// RFC 3339.
func DateTime(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	format := c.format
	layoutOf := func(st *marzipan.State) string {
		if format != "" {
			return format
		}
		if st.DateFormat != "" {
			return st.DateFormat
		}
		return time.RFC3339
	}
	out := func(st *marzipan.State, v any) (any, error) {
		t, err := toTime(v, layoutOf(st))
		if err != nil {
			return nil, marzipan.Convf("'%v' cannot be formatted as a datetime.", v)
		}
		return t.Format(layoutOf(st)), nil
	}
	in := func(st *marzipan.State, v any) (any, error) {
		t, err := toTime(v, layoutOf(st))
		if err != nil {
			return nil, marzipan.Convf("'%v' cannot be formatted as a datetime.", v)
		}
		return t, nil
	}
	return newBase(c, nil, out, in)
}

// Date handles calendar dates ("2006-01-02" unless Format overrides).
func Date(opts ...Option) marzipan.Field {
	return temporal(opts, dateLayout, "'%v' cannot be formatted as a date.")
}

// Time handles wall-clock times ("15:04:05" unless Format overrides).
func Time(opts ...Option) marzipan.Field {
	return temporal(opts, timeLayout, "'%v' cannot be formatted as a time.")
}

func temporal(opts []Option, fallback, errFormat string) marzipan.Field {
	c := applyOptions(opts)
	layout := c.format
	if layout == "" {
		layout = fallback
	}
	out := func(st *marzipan.State, v any) (any, error) {
		t, err := toTime(v, layout)
		if err != nil {
			return nil, marzipan.Convf(errFormat, v)
		}
		return t.Format(layout), nil
	}
	in := func(st *marzipan.State, v any) (any, error) {
		t, err := toTime(v, layout)
		if err != nil {
			return nil, marzipan.Convf(errFormat, v)
		}
		return t, nil
	}
	return newBase(c, nil, out, in)
}

func toTime(v any, layout string) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		return *t, nil
	case string:
		if parsed, err := time.Parse(layout, t); err == nil {
			return parsed, nil
		}
		return time.Parse(time.RFC3339, t)
	}
	return time.Time{}, &marzipan.ConversionError{Message: "not a time value"}
}

// TimeDelta converts durations to total seconds and back. Input accepts
// numeric seconds or Go duration strings ("1h30m").
func TimeDelta(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	out := func(st *marzipan.State, v any) (any, error) {
		d, err := toDuration(v)
		if err != nil {
			return nil, marzipan.Convf("'%v' cannot be interpreted as a duration.", v)
		}
		return d.Seconds(), nil
	}
	in := func(st *marzipan.State, v any) (any, error) {
		d, err := toDuration(v)
		if err != nil {
			return nil, marzipan.Convf("'%v' cannot be interpreted as a duration.", v)
		}
		return d, nil
	}
	return newBase(c, nil, out, in)
}

func toDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		return time.ParseDuration(d)
	}
	if f, err := toFloat(v); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	return 0, &marzipan.ConversionError{Message: "not a duration value"}
}

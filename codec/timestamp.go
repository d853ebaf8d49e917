// Package codec converts timestamps between their wire formats and
// time.Time. Generated deserializers pick the format from the
// timestampFormat trait of the member or its target.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format is a timestamp wire format.
type Format string

const (
	DateTime     Format = "date-time"
	EpochSeconds Format = "epoch-seconds"
	HTTPDate     Format = "http-date"
)

// Default is used when no timestampFormat trait applies.
const Default = EpochSeconds

const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// ErrUnknownFormat is returned by ParseFormat for unrecognized names.
var ErrUnknownFormat = errors.New("unknown timestamp format")

// ParseFormat resolves a trait value; the empty string yields Default.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return Default, nil
	case DateTime, EpochSeconds, HTTPDate:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Numeric reports whether the format is carried as a JSON number.
func (f Format) Numeric() bool { return f == EpochSeconds }

// Ident returns the name of the constant declaring f in this package.
func (f Format) Ident() string {
	switch f {
	case DateTime:
		return "DateTime"
	case HTTPDate:
		return "HTTPDate"
	default:
		return "EpochSeconds"
	}
}

// Decode parses wire text. For epoch-seconds s is the JSON number text.
func (f Format) Decode(s string) (time.Time, error) {
	switch f {
	case DateTime:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid %s timestamp %q: %w", f, s, err)
		}
		return t, nil
	case HTTPDate:
		t, err := time.Parse(httpDateLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid %s timestamp %q: %w", f, s, err)
		}
		return t, nil
	case EpochSeconds:
		return decodeEpoch(s)
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Encode renders t in canonical form: UTC for date-time, the shortest
// exact decimal for epoch-seconds.
func (f Format) Encode(t time.Time) string {
	switch f {
	case DateTime:
		return t.UTC().Format(time.RFC3339Nano)
	case HTTPDate:
		return t.UTC().Format(httpDateLayout)
	default:
		return encodeEpoch(t)
	}
}

func decodeEpoch(s string) (time.Time, error) {
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch-seconds timestamp %q: %w", s, err)
		}
		sec := int64(f)
		return time.Unix(sec, int64((f-float64(sec))*1e9)).UTC(), nil
	}
	neg := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch-seconds timestamp %q: %w", s, err)
	}
	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		nanos, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch-seconds timestamp %q: %w", s, err)
		}
	}
	if neg {
		sec, nanos = -sec, -nanos
	}
	return time.Unix(sec, nanos).UTC(), nil
}

func encodeEpoch(t time.Time) string {
	sec, nsec := t.Unix(), int64(t.Nanosecond())
	if nsec == 0 {
		return strconv.FormatInt(sec, 10)
	}
	sign := ""
	if sec < 0 {
		sign = "-"
		sec, nsec = -(sec + 1), 1e9-nsec
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	return sign + strconv.FormatInt(sec, 10) + "." + frac
}

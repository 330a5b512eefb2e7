package sync

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// ContactSentinel replaces contact numbers that don't match the expected
// international format. Shipping a recognizable placeholder beats failing the
// whole row over a typo in a phone number.
const ContactSentinel = "+254000000000"

// Patient age bounds. Out-of-range ages hard-fail on push (the bad data is
// never shipped) and clamp on pull (a remote row shouldn't be lost over it).
const (
	AgeMin = 1
	AgeMax = 150
)

var contactFormatRE = regexp.MustCompile(`^\+[0-9]{3}[0-9]{9}$`)

// timestampLayouts are tried in order. The local store writes RFC3339-ish
// text, SQLite's CURRENT_TIMESTAMP produces the space-separated form without
// a zone, and the remote store returns RFC3339. Zone-less values are read as
// UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp value as flexibly as possible and returns
// a zone-aware instant.
func ParseTimestamp(v interface{}) (time.Time, error) {
	switch value := v.(type) {
	case time.Time:
		return value, nil
	case []byte:
		return parseTimestampString(string(value))
	case string:
		return parseTimestampString(value)
	default:
		return time.Time{}, errors.Errorf("cannot parse %T as a timestamp", v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", s)
}

// FormatTimestamp emits the normalized wire form for timestamps.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// normalizeRow filters a row down to the table's known columns, re-emits
// every timestamp column as normalized RFC3339, and coerces boolean columns
// (stored as 0/1 locally) to native booleans.
func normalizeRow(t Table, row map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(t.Columns))
	for _, col := range t.Columns {
		if v, ok := row[col]; ok {
			out[col] = v
		}
	}

	for _, col := range t.TimeColumns {
		v, ok := out[col]
		if !ok || v == nil {
			continue
		}
		ts, err := ParseTimestamp(v)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", col)
		}
		out[col] = FormatTimestamp(ts)
	}

	for _, col := range t.BoolColumns {
		v, ok := out[col]
		if !ok || v == nil {
			continue
		}
		out[col] = asBool(v)
	}

	return out, nil
}

// validatePatientForPush applies the domain guards before a patient row is
// transmitted. An out-of-range age fails the entry without contacting the
// remote store; a malformed contact is recoverable and rewritten in place.
func validatePatientForPush(row map[string]interface{}) error {
	age, ok := asInt(row["age"])
	if !ok {
		return errors.New("patient age is not numeric")
	}
	if age < AgeMin || age > AgeMax {
		return errors.Errorf("patient age %d is outside [%d, %d]", age, AgeMin, AgeMax)
	}

	rewriteContact(row)
	return nil
}

// sanitizePatientForPull clamps a remote patient row into local validity
// rather than rejecting it. A non-numeric age is unrecoverable; the row is
// skipped.
func sanitizePatientForPull(row map[string]interface{}, log logger.Logger) (skip bool) {
	age, ok := asInt(row["age"])
	if !ok {
		log.Warn("skipping remote patient row with non-numeric age", logger.Data{"patient_id": row["patient_id"]})
		return true
	}
	if age < AgeMin {
		log.Warn("clamping remote patient age", logger.Data{"patient_id": row["patient_id"], "age": age})
		row["age"] = AgeMin
	} else if age > AgeMax {
		log.Warn("clamping remote patient age", logger.Data{"patient_id": row["patient_id"], "age": age})
		row["age"] = AgeMax
	} else {
		row["age"] = age
	}

	rewriteContact(row)
	return false
}

func rewriteContact(row map[string]interface{}) {
	v, ok := row["contact"]
	if !ok || v == nil {
		return
	}
	contact, ok := v.(string)
	if !ok || !contactFormatRE.MatchString(contact) {
		row["contact"] = ContactSentinel
	}
}

func asInt(v interface{}) (int, bool) {
	switch value := v.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		if value != float64(int(value)) {
			return 0, false
		}
		return int(value), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func asInt64(v interface{}) (int64, bool) {
	n, ok := asInt(v)
	return int64(n), ok
}

func asBool(v interface{}) bool {
	switch value := v.(type) {
	case bool:
		return value
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	case string:
		return value == "1" || value == "true"
	default:
		return false
	}
}

package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ParseDuration parses duration strings like "5m", "1h", "30s", "1d" into time.Duration
func ParseDuration(s string) (time.Duration, error) {
	if s == "now" || s == "" {
		return 0, nil
	}

	// Handle relative time strings
	if strings.HasSuffix(s, "m") {
		minutes, err := strconv.Atoi(strings.TrimSuffix(s, "m"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration format: %s", s)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	if strings.HasSuffix(s, "h") {
		hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration format: %s", s)
		}
		return time.Duration(hours) * time.Hour, nil
	}

	if strings.HasSuffix(s, "s") {
		seconds, err := strconv.Atoi(strings.TrimSuffix(s, "s"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration format: %s", s)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration format: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	// Try parsing as standard Go duration
	return time.ParseDuration(s)
}

// ToLineProtocol encodes the point in InfluxDB line protocol:
// measurement[,tag=value...] field=value[,field=value...] [timestamp]
func (p *Point) ToLineProtocol() (string, error) {
	if p.Measurement == "" {
		return "", fmt.Errorf("point is missing a measurement name")
	}
	if len(p.Fields) == 0 {
		return "", fmt.Errorf("point %s has no fields", p.Measurement)
	}

	var sb strings.Builder
	sb.WriteString(escapeMeasurement(p.Measurement))

	// Tags sorted by key
	tagKeys := lo.Keys(p.Tags)
	sort.Strings(tagKeys)
	for _, k := range tagKeys {
		sb.WriteString(",")
		sb.WriteString(escapeTag(k))
		sb.WriteString("=")
		sb.WriteString(escapeTag(p.Tags[k]))
	}

	sb.WriteString(" ")

	fieldKeys := lo.Keys(p.Fields)
	sort.Strings(fieldKeys)
	for i, k := range fieldKeys {
		if i > 0 {
			sb.WriteString(",")
		}
		value, err := formatFieldValue(p.Fields[k])
		if err != nil {
			return "", fmt.Errorf("point %s field %s: %v", p.Measurement, k, err)
		}
		sb.WriteString(escapeTag(k))
		sb.WriteString("=")
		sb.WriteString(value)
	}

	if !p.Timestamp.IsZero() {
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatInt(p.Timestamp.UnixNano(), 10))
	}

	return sb.String(), nil
}

// EncodePoints encodes points into a newline-separated line protocol batch,
// skipping points that cannot be encoded
func EncodePoints(points []Point) (string, error) {
	lines := make([]string, 0, len(points))
	for i := range points {
		line, err := points[i].ToLineProtocol()
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// escapeMeasurement escapes commas and spaces in measurement names
func escapeMeasurement(s string) string {
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, " ", `\ `)
	return s
}

// escapeTag escapes commas, equals signs and spaces in tag keys, tag values and field keys
func escapeTag(s string) string {
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "=", `\=`)
	s = strings.ReplaceAll(s, " ", `\ `)
	return s
}

func formatFieldValue(v interface{}) (string, error) {
	switch value := v.(type) {
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 64), nil
	case int:
		return strconv.FormatInt(int64(value), 10) + "i", nil
	case int32:
		return strconv.FormatInt(int64(value), 10) + "i", nil
	case int64:
		return strconv.FormatInt(value, 10) + "i", nil
	case uint:
		return strconv.FormatUint(uint64(value), 10) + "i", nil
	case bool:
		return strconv.FormatBool(value), nil
	case string:
		escaped := strings.ReplaceAll(value, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		return `"` + escaped + `"`, nil
	case time.Duration:
		return strconv.FormatInt(value.Milliseconds(), 10) + "i", nil
	default:
		return "", fmt.Errorf("unsupported field type %T", v)
	}
}

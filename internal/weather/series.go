package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BuildSeries reshapes an archive response into one Series per variable.
// Dates and values are paired by position; when the arrays differ in length
// the extra entries are dropped.
func BuildSeries(resp ArchiveResponse, variables []string) ([]Series, error) {
	if resp.Daily == nil {
		return nil, &SchemaError{Field: "daily"}
	}
	if resp.DailyUnits == nil {
		return nil, &SchemaError{Field: "daily_units"}
	}
	for _, v := range variables {
		if _, ok := resp.Daily[v]; !ok {
			return nil, &SchemaError{Field: v}
		}
	}

	rawTime, ok := resp.Daily["time"]
	if !ok {
		return nil, &SchemaError{Field: "time"}
	}
	var dates []string
	if err := json.Unmarshal(rawTime, &dates); err != nil {
		return nil, fmt.Errorf("decode daily time: %w", err)
	}

	out := make([]Series, 0, len(variables))
	for _, v := range variables {
		unit, ok := resp.DailyUnits[v]
		if !ok {
			return nil, &SchemaError{Field: v}
		}

		values, err := decodeValues(resp.Daily[v])
		if err != nil {
			return nil, fmt.Errorf("decode daily %s: %w", v, err)
		}

		n := min(len(dates), len(values))
		series := Series{Variable: v, Values: make(map[string]string, n)}
		for i := 0; i < n; i++ {
			series.Values[dates[i]] = formatValue(values[i]) + unit
		}
		out = append(out, series)
	}

	return out, nil
}

// decodeValues keeps numbers as their original JSON text.
func decodeValues(raw json.RawMessage) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var values []any
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}
	return values, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case json.Number:
		return val.String()
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

package taskdata

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// predecessorKeys are the accepted names of the predecessor list, in order
// of preference.
var predecessorKeys = []string{"predecessors", "predIds", "pred"}

// ParseJSON parses a JSON task list. The document is either an array of task
// objects or an object holding that array under "tasks". Predecessors may be
// given as plain id strings or as {"id", "type", "lag"} objects.
func ParseJSON(name string, data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Source: name, Index: -1, Msg: "invalid JSON"}
	}

	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("tasks")
	}
	if !root.IsArray() {
		return nil, &ParseError{Source: name, Index: -1, Msg: "expected an array of tasks"}
	}

	var records []Record
	var parseErr error
	i := 0
	root.ForEach(func(_, item gjson.Result) bool {
		rec, err := parseJSONTask(item)
		if err != nil {
			parseErr = &ParseError{Source: name, Index: i, Msg: err.Error()}
			return false
		}
		records = append(records, rec)
		i++
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return records, nil
}

func parseJSONTask(item gjson.Result) (Record, error) {
	if !item.IsObject() {
		return Record{}, fmt.Errorf("expected an object, got %s", item.Type)
	}

	id := item.Get("id")
	if id.Type != gjson.String {
		return Record{}, fmt.Errorf("missing string field \"id\"")
	}
	rec := Record{ID: id.String()}

	duration, err := jsonInt(item.Get("duration"), "duration")
	if err != nil {
		return Record{}, fmt.Errorf("task %q: %w", rec.ID, err)
	}
	rec.Duration = duration

	preds := predecessorList(item)
	if !preds.Exists() || preds.Type == gjson.Null {
		return rec, nil
	}
	if !preds.IsArray() {
		return Record{}, fmt.Errorf("task %q: predecessors must be an array", rec.ID)
	}

	for _, p := range preds.Array() {
		pr, err := parseJSONPredecessor(p)
		if err != nil {
			return Record{}, fmt.Errorf("task %q: %w", rec.ID, err)
		}
		rec.Predecessors = append(rec.Predecessors, pr)
	}
	return rec, nil
}

func predecessorList(item gjson.Result) gjson.Result {
	for _, key := range predecessorKeys {
		if v := item.Get(key); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func parseJSONPredecessor(p gjson.Result) (PredecessorRecord, error) {
	switch {
	case p.Type == gjson.String:
		return PredecessorRecord{ID: p.String()}, nil
	case p.IsObject():
		id := p.Get("id")
		if id.Type != gjson.String {
			return PredecessorRecord{}, fmt.Errorf("predecessor is missing string field \"id\"")
		}
		pr := PredecessorRecord{ID: id.String()}
		if typ := p.Get("type"); typ.Exists() && typ.Type != gjson.Null {
			if typ.Type != gjson.String {
				return PredecessorRecord{}, fmt.Errorf("predecessor %q: type must be a string", pr.ID)
			}
			pr.Type = typ.String()
		}
		lag, err := jsonInt(p.Get("lag"), "lag")
		if err != nil {
			return PredecessorRecord{}, fmt.Errorf("predecessor %q: %w", pr.ID, err)
		}
		pr.Lag = lag
		return pr, nil
	default:
		return PredecessorRecord{}, fmt.Errorf("predecessor must be a string or an object, got %s", p.Type)
	}
}

// jsonInt reads an optional integer field. Absent or null reads as zero.
func jsonInt(v gjson.Result, field string) (int, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return 0, nil
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	if v.Num != math.Trunc(v.Num) || math.Abs(v.Num) > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be an integer, got %s", field, v.Raw)
	}
	return int(v.Num), nil
}

package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/eventbus"
	"github.com/Alphacentaura/FarmSquare/mods/logging"
	"github.com/tidwall/gjson"
)

// JSONLinesSource reads one event per line.
//
//	{"type":"position","lat":55.75,"lng":37.61,"alt":150,"accuracy":5,"ts":"2024-05-01T10:00:00Z"}
//	{"type":"authorization","status":"denied"}
//	{"type":"failure","kind":"hardware","message":"gps off"}
//	{"type":"start"}
//	{"type":"stop"}
//
// "ts" is either RFC3339 or unix epoch in milliseconds.
// Lines that can not be understood are posted as input failures.
type JSONLinesSource struct {
	// Path of the input, "-" is stdin. Used when Reader is nil.
	Path   string
	Reader io.Reader

	log logging.Log
}

var _ Source = (*JSONLinesSource)(nil)

const maxLineSize = 1024 * 1024

func (s *JSONLinesSource) Run(ctx context.Context, sink Sink) error {
	if s.log == nil {
		s.log = logging.GetLog("source-jsonl")
	}
	r := s.Reader
	if r == nil {
		if s.Path == "-" || s.Path == "" {
			r = os.Stdin
		} else {
			f, err := os.Open(s.Path)
			if err != nil {
				return fmt.Errorf("open jsonl: %w", err)
			}
			defer f.Close()
			r = f
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := ParseLine(line)
		if err != nil {
			s.log.Debugf("line %d %s", lineNo, err.Error())
			ev = eventbus.NewFailure(eventbus.FailureInput, fmt.Sprintf("line %d: %s", lineNo, err.Error()))
		}
		if err := sink.Post(ctx, ev); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read jsonl: %w", err)
	}
	return nil
}

// ParseLine converts a single json line into an event.
func ParseLine(line []byte) (*eventbus.Event, error) {
	if !gjson.ValidBytes(line) {
		return nil, fmt.Errorf("invalid json")
	}
	obj := gjson.ParseBytes(line)
	if !obj.IsObject() {
		return nil, fmt.Errorf("json object expected")
	}
	var ev *eventbus.Event
	switch typ := obj.Get("type").String(); typ {
	case eventbus.EVT_POSITION:
		lat, lng := obj.Get("lat"), obj.Get("lng")
		if lat.Type != gjson.Number || lng.Type != gjson.Number {
			return nil, fmt.Errorf("position requires numeric lat and lng")
		}
		ts, err := parseTimestamp(obj.Get("ts"))
		if err != nil {
			return nil, err
		}
		ev = eventbus.NewPosition(lat.Float(), lng.Float(), ts)
		ev.Position.Altitude = obj.Get("alt").Float()
		ev.Position.Accuracy = obj.Get("accuracy").Float()
	case eventbus.EVT_AUTHORIZATION:
		status, ok := eventbus.ParseAuthStatus(obj.Get("status").String())
		if !ok {
			return nil, fmt.Errorf("unknown authorization status %q", obj.Get("status").String())
		}
		ev = eventbus.NewAuthorization(status)
	case eventbus.EVT_FAILURE:
		kind := eventbus.FailureKind(obj.Get("kind").String())
		switch kind {
		case eventbus.FailurePermission, eventbus.FailureHardware, eventbus.FailureSignal, eventbus.FailureInput:
		case "":
			kind = eventbus.FailureHardware
		default:
			return nil, fmt.Errorf("unknown failure kind %q", kind)
		}
		ev = eventbus.NewFailure(kind, obj.Get("message").String())
	case string(eventbus.CMD_START), string(eventbus.CMD_STOP):
		ev = eventbus.NewCommand(eventbus.CommandName(typ))
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return nil, fmt.Errorf("unknown type %q", typ)
	}
	ev.Session = obj.Get("session").String()
	return ev, nil
}

func parseTimestamp(v gjson.Result) (time.Time, error) {
	switch v.Type {
	case gjson.Null:
		return time.Time{}, nil
	case gjson.Number:
		return time.UnixMilli(v.Int()), nil
	case gjson.String:
		ts, err := time.Parse(time.RFC3339Nano, v.Str)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid ts %q", v.Str)
		}
		return ts, nil
	default:
		return time.Time{}, fmt.Errorf("invalid ts %s", v.Raw)
	}
}

package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Goden-Gun/errdisplay/pkg/classify"
)

// Version is stamped on events that arrive without one.
const Version = "2025-01"

// DefaultNamedPrefixes lists external systems that identify errors by name.
var DefaultNamedPrefixes = []string{"learndash"}

// Decoder sorts raw error objects into classify.Input variants.
type Decoder struct {
	NamedPrefixes []string
}

// DefaultDecoder recognises DefaultNamedPrefixes.
var DefaultDecoder = Decoder{NamedPrefixes: DefaultNamedPrefixes}

// FromMap picks the first matching shape in the order code, validator,
// error, name. Anything else is unclassified.
func (d Decoder) FromMap(raw map[string]any) classify.Input {
	if raw == nil {
		return nil
	}
	if _, ok := raw["code"]; ok {
		return codedFromMap(raw)
	}
	if _, ok := raw["validator"]; ok {
		w := classify.ValidationWarning{Validator: stringOf(raw["validator"])}
		if opts, ok := raw["options"].(map[string]any); ok {
			w.Message = stringOf(opts["message"])
		}
		return w
	}
	if inner, ok := raw["error"].(map[string]any); ok {
		return classify.WrappedError{Err: codedFromMap(inner)}
	}
	if name, ok := raw["name"].(string); ok && d.knownName(name) {
		return classify.NamedError{Name: name}
	}
	return classify.Unclassified{Raw: raw}
}

// Decode parses JSON. A JSON null decodes to a nil Input.
func (d Decoder) Decode(data []byte) (classify.Input, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("error payload empty")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode error payload: %w", err)
	}
	switch raw := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return d.FromMap(raw), nil
	default:
		return classify.Unclassified{Raw: raw}, nil
	}
}

// FromStruct converts a protobuf Struct payload.
func (d Decoder) FromStruct(s *structpb.Struct) classify.Input {
	if s == nil {
		return nil
	}
	return d.FromMap(s.AsMap())
}

// Coder is implemented by Go errors that carry an API error code.
type Coder interface {
	Code() string
}

type contexter interface {
	Context() string
}

type paramser interface {
	Params() map[string]any
}

// FromError converts a Go error. Errors in the chain implementing Coder become
// coded errors; the rest are unclassified.
func (d Decoder) FromError(err error) classify.Input {
	if err == nil {
		return nil
	}
	var coder Coder
	if !errors.As(err, &coder) {
		return classify.Unclassified{Raw: err}
	}
	in := classify.CodedError{Code: coder.Code()}
	if c, ok := coder.(contexter); ok {
		in.Context = c.Context()
		in.HasContext = true
	}
	if p, ok := coder.(paramser); ok {
		in.Params = p.Params()
	}
	return in
}

func (d Decoder) knownName(name string) bool {
	for _, prefix := range d.NamedPrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func codedFromMap(raw map[string]any) classify.CodedError {
	in := classify.CodedError{Code: stringOf(raw["code"])}
	if ctx, ok := raw["context"].(string); ok {
		in.Context = ctx
		in.HasContext = true
	}
	if data, ok := raw["data"].(map[string]any); ok {
		if params, ok := data["params"].(map[string]any); ok {
			in.Params = params
		}
	}
	return in
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

// Event carries one error to be displayed.
type Event struct {
	ID         string          `json:"id"`
	Version    string          `json:"version"`
	Error      json.RawMessage `json:"error"`
	ShowIcon   *bool           `json:"show_icon,omitempty"`
	ClassName  string          `json:"class_name,omitempty"`
	Locale     string          `json:"locale,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// NormalizeEvent fills default fields.
func NormalizeEvent(ev *Event) {
	if ev == nil {
		return
	}
	if ev.Version == "" {
		ev.Version = Version
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now().UTC()
	}
}

// ValidateEvent checks an event before it is classified.
func ValidateEvent(ev *Event) error {
	if ev == nil {
		return errors.New("event is nil")
	}
	if strings.TrimSpace(ev.ID) == "" {
		return errors.New("event id is required")
	}
	return nil
}

// ParseEvent decodes and normalizes an event.
func ParseEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	NormalizeEvent(&ev)
	return &ev, ValidateEvent(&ev)
}

// Input decodes the event's error payload. A missing payload is a nil Input.
func (ev *Event) Input(d Decoder) (classify.Input, error) {
	if ev == nil || len(bytes.TrimSpace(ev.Error)) == 0 {
		return nil, nil
	}
	return d.Decode(ev.Error)
}

// ShowIconOr returns the event's show_icon flag, or def when unset.
func (ev *Event) ShowIconOr(def bool) bool {
	if ev == nil || ev.ShowIcon == nil {
		return def
	}
	return *ev.ShowIcon
}

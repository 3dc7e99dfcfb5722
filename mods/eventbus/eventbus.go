package eventbus

import (
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/nums"
)

const (
	EVT_POSITION      = "position"      // source -> tracker
	EVT_AUTHORIZATION = "authorization" // source -> tracker
	EVT_FAILURE       = "failure"       // source -> tracker
	EVT_COMMAND       = "command"       // user -> tracker
)

type Event struct {
	Type          string         `json:"type"`
	Session       string         `json:"session,omitempty"`
	Position      *Position      `json:"position,omitempty"`
	Authorization *Authorization `json:"authorization,omitempty"`
	Failure       *Failure       `json:"failure,omitempty"`
	Command       *Command       `json:"command,omitempty"`
}

// Position is a single location sample.
// Only Lat/Lng take part in the area estimation.
type Position struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Altitude  float64   `json:"alt,omitempty"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"ts"`
}

func (p *Position) LatLng() nums.LatLng {
	return nums.LatLng{Lat: p.Lat, Lng: p.Lng}
}

type AuthStatus string

const (
	AuthNotDetermined AuthStatus = "notDetermined"
	AuthGranted       AuthStatus = "granted"
	AuthDenied        AuthStatus = "denied"
	AuthRestricted    AuthStatus = "restricted"
)

func ParseAuthStatus(s string) (AuthStatus, bool) {
	switch AuthStatus(s) {
	case AuthNotDetermined, AuthGranted, AuthDenied, AuthRestricted:
		return AuthStatus(s), true
	}
	return "", false
}

type Authorization struct {
	Status AuthStatus `json:"status"`
}

type FailureKind string

const (
	FailurePermission FailureKind = "permission"
	FailureHardware   FailureKind = "hardware"
	FailureSignal     FailureKind = "signal"
	FailureInput      FailureKind = "input"
)

type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// Error makes a Failure usable where an error is expected,
// e.g. Presenter.ShowLocationUnavailable.
func (f *Failure) Error() string {
	if f.Message == "" {
		return string(f.Kind) + " failure"
	}
	return string(f.Kind) + ": " + f.Message
}

type CommandName string

const (
	CMD_START CommandName = "start"
	CMD_STOP  CommandName = "stop"
)

type Command struct {
	Name CommandName `json:"name"`
}

func NewPosition(lat, lng float64, ts time.Time) *Event {
	return &Event{
		Type:     EVT_POSITION,
		Position: &Position{Lat: lat, Lng: lng, Timestamp: ts},
	}
}

func NewAuthorization(status AuthStatus) *Event {
	return &Event{
		Type:          EVT_AUTHORIZATION,
		Authorization: &Authorization{Status: status},
	}
}

func NewFailure(kind FailureKind, message string) *Event {
	return &Event{
		Type:    EVT_FAILURE,
		Failure: &Failure{Kind: kind, Message: message},
	}
}

func NewCommand(name CommandName) *Event {
	return &Event{
		Type:    EVT_COMMAND,
		Command: &Command{Name: name},
	}
}

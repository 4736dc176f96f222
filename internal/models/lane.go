package models

import (
	"fmt"
	"strings"

	"github.com/thenoetrevino/tablero/internal/types"
)

// LaneKind distinguishes status lanes from section lanes
type LaneKind int

const (
	LaneStatus LaneKind = iota
	LaneSection
)

func (k LaneKind) String() string {
	if k == LaneSection {
		return "section"
	}
	return "status"
}

// LaneKey identifies a board lane. Value is a canonical status or a section id.
type LaneKey struct {
	Kind  LaneKind
	Value string
}

// StatusLane returns the lane key for a status, normalizing synonyms
func StatusLane(s Status) LaneKey {
	return LaneKey{Kind: LaneStatus, Value: string(NormalizeStatus(string(s)))}
}

func SectionLane(id types.SectionID) LaneKey {
	return LaneKey{Kind: LaneSection, Value: string(id)}
}

func (k LaneKey) IsSection() bool {
	return k.Kind == LaneSection
}

// Status returns the lane's status; only meaningful for status lanes
func (k LaneKey) Status() Status {
	return Status(k.Value)
}

func (k LaneKey) SectionID() types.SectionID {
	return types.SectionID(k.Value)
}

// Wire encodes the key for batched order saves: status:<api status> or section:<id>
func (k LaneKey) Wire() string {
	if k.Kind == LaneSection {
		return "section:" + k.Value
	}
	return "status:" + APIStatus(Status(k.Value))
}

func (k LaneKey) String() string {
	return k.Kind.String() + ":" + k.Value
}

// ParseLaneKey decodes the wire form produced by Wire
func ParseLaneKey(wire string) (LaneKey, error) {
	kind, value, ok := strings.Cut(wire, ":")
	if !ok || value == "" {
		return LaneKey{}, fmt.Errorf("%w: malformed lane %q", ErrValidation, wire)
	}
	switch kind {
	case "status":
		return StatusLane(UIStatus(value)), nil
	case "section":
		return SectionLane(types.SectionID(value)), nil
	}
	return LaneKey{}, fmt.Errorf("%w: unknown lane kind %q", ErrValidation, kind)
}

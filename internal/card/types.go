// internal/card/types.go
//
// Core type definitions for the card model.
// Defines:
//   - Value: face value One..Ten.
//   - Type:  element suit (Air, Water, Earth, Fire).
//   - Archetype: the immutable (value, type) identity pair.

package card

import (
	"strconv"
	"strings"
)

// Value is a card's face value. Valid values are One (1) through Ten (10).
type Value int

const (
	One Value = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
)

// ValueCount is the number of distinct card values.
const ValueCount = 10

var valueNames = [...]string{"One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten"}

// Valid reports whether v is within One..Ten.
func (v Value) Valid() bool { return v >= One && v <= Ten }

func (v Value) String() string {
	if !v.Valid() {
		return "Value(" + strconv.Itoa(int(v)) + ")"
	}
	return valueNames[v-1]
}

// ParseValue accepts a value name ("three", case-insensitive) or its digits ("3").
func ParseValue(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		v := Value(n)
		return v, v.Valid()
	}
	for i, name := range valueNames {
		if strings.EqualFold(name, s) {
			return Value(i + 1), true
		}
	}
	return 0, false
}

// Type is a card's element.
type Type int

const (
	Air Type = iota
	Water
	Earth
	Fire
)

// TypeCount is the number of distinct card types.
const TypeCount = 4

var typeNames = [...]string{"Air", "Water", "Earth", "Fire"}

// Valid reports whether t is one of the four elements.
func (t Type) Valid() bool { return t >= Air && t <= Fire }

func (t Type) String() string {
	if !t.Valid() {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// ParseType accepts an element name, case-insensitive.
func ParseType(s string) (Type, bool) {
	s = strings.TrimSpace(s)
	for i, name := range typeNames {
		if strings.EqualFold(name, s) {
			return Type(i), true
		}
	}
	return 0, false
}

// Archetype is the (value, type) pair two cards must share to match.
type Archetype struct {
	Value Value `json:"value" yaml:"value"`
	Type  Type  `json:"type" yaml:"type"`
}

// Valid reports whether both halves of the pair are in range.
func (a Archetype) Valid() bool { return a.Value.Valid() && a.Type.Valid() }

// String renders the archetype as "<value> of <type>", e.g. "Three of Fire".
func (a Archetype) String() string { return a.Value.String() + " of " + a.Type.String() }

// Key renders the archetype as "card<value>Of<type>", e.g. "cardThreeOfFire".
func (a Archetype) Key() string { return "card" + a.Value.String() + "Of" + a.Type.String() }

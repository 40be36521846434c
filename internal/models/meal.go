// Package models defines core data structures for meal planning, food documents, and corpus search.
package models

import (
	"fmt"
	"strings"
)

// MealSlot is one of the four fixed daily meal categories.
type MealSlot int

const (
	Breakfast MealSlot = iota
	Lunch
	Dinner
	Snacks
)

// MealSlots lists every slot in canonical order.
var MealSlots = [...]MealSlot{Breakfast, Lunch, Dinner, Snacks}

var slotNames = [...]string{"breakfast", "lunch", "dinner", "snacks"}

// String returns the lower-case slot name used in JSON and queries.
func (s MealSlot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("MealSlot(%d)", int(s))
	}
	return slotNames[s]
}

// Valid reports whether s is one of the four known slots.
func (s MealSlot) Valid() bool {
	return s >= Breakfast && s <= Snacks
}

// Title returns the slot name with a leading capital ("Breakfast").
func (s MealSlot) Title() string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Upper returns the slot name in upper case ("BREAKFAST"), as used in plan section headers.
func (s MealSlot) Upper() string {
	return strings.ToUpper(s.String())
}

// ParseMealSlot parses a slot name case-insensitively.
func ParseMealSlot(name string) (MealSlot, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, sn := range slotNames {
		if sn == n {
			return MealSlot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown meal slot %q", name)
}

// MarshalText implements encoding.TextMarshaler so slots can be JSON map keys.
func (s MealSlot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid meal slot %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *MealSlot) UnmarshalText(text []byte) error {
	slot, err := ParseMealSlot(string(text))
	if err != nil {
		return err
	}
	*s = slot
	return nil
}

// JoinTitles joins slot titles with ", " ("Lunch, Dinner").
func JoinTitles(slots []MealSlot) string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Title()
	}
	return strings.Join(names, ", ")
}

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines the units configuration lengths may be written in.

// Unit represents the unit a length value was written in.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, interpreted by the caller's default unit
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.3527777778
	MmToPt = 1.0 / PtToMm
)

// A4 page size in millimeters.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
)

// String returns the short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

// In returns the length in target unit (UnitMM or UnitPT). A length without
// unit is taken to already be in the target unit.
func (l Length) In(target Unit) float64 {
	var mm float64
	switch l.Unit {
	case UnitNone:
		return l.Value
	case UnitMM:
		mm = l.Value
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * 25.4
	case UnitPT:
		if target == UnitPT {
			return l.Value
		}
		mm = l.Value * PtToMm
	}
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) MM() float64 { return l.In(UnitMM) }

// ParseLength parses strings like "12", "12mm", "1.5cm", "10pt" preserving the unit.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

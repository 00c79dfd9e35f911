package docx

import (
	"fmt"
	"strconv"
	"strings"
)

// EMU is a length in English Metric Units, the unit used for drawing extents
type EMU int64

const (
	Point      EMU = 12700
	Millimeter EMU = 36000
	Centimeter EMU = 360000
	Inch       EMU = 914400
)

func Inches(f float64) EMU {
	return EMU(f * float64(Inch))
}

func Centimeters(f float64) EMU {
	return EMU(f * float64(Centimeter))
}

var lengthUnits = map[string]EMU{
	"in": Inch,
	"cm": Centimeter,
	"mm": Millimeter,
	"pt": Point,
}

// ParseLength parses lengths such as "2in", "5cm", "50mm" or "144pt"
func ParseLength(s string) (EMU, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	for suffix, unit := range lengthUnits {
		if !strings.HasSuffix(s, suffix) {
			continue
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, suffix)), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid length %q: %w", s, err)
		}
		if f <= 0 {
			return 0, fmt.Errorf("invalid length %q: must be positive", s)
		}

		return EMU(f * float64(unit)), nil
	}

	return 0, fmt.Errorf("invalid length %q: unit must be one of in, cm, mm or pt", s)
}

package dashboard

import "github.com/shopspring/decimal"

// DigitBand is one column of the rolling balance counter. A digit at
// position i stacks the glyphs 0-9 Repeat = i+1 times; Offset is how far up
// (in percent of the band) the stack is translated. Later columns travel
// further, which makes them roll longer.
type DigitBand struct {
	Char      string
	Separator bool
	Digit     int
	Repeat    int
	Glyphs    []int
	Offset    float64 // rendered offset
	Target    float64 // offset that reveals Digit in the last repetition
}

// RollDigits lays out the counter for balance. With loaded false every band
// rests at offset zero.
func RollDigits(balance decimal.Decimal, loaded bool) []DigitBand {
	s := balance.String()
	bands := make([]DigitBand, 0, len(s))
	for i, r := range s {
		if r < '0' || r > '9' {
			bands = append(bands, DigitBand{Char: string(r), Separator: true})
			continue
		}
		d := int(r - '0')
		b := DigitBand{
			Char:   string(r),
			Digit:  d,
			Repeat: i + 1,
			Glyphs: glyphs(i + 1),
			Target: rollOffset(i, d),
		}
		if loaded {
			b.Offset = b.Target
		}
		bands = append(bands, b)
	}
	return bands
}

// rollOffset places glyph 10*i+d of a band holding 10*(i+1) glyphs at the
// top of the viewport.
func rollOffset(i, d int) float64 {
	return 100 * float64(10*i+d) / float64(10*(i+1))
}

func glyphs(repeat int) []int {
	out := make([]int, 0, 10*repeat)
	for r := 0; r < repeat; r++ {
		for d := 0; d < 10; d++ {
			out = append(out, d)
		}
	}
	return out
}

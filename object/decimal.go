package object

import (
	"math/big"
	"strings"

	"github.com/tangramlang/tangram/types"
)

// DivisionScale is the fixed number of digits after the decimal point a
// Decimal division produces, per spec.md §9's "Decimal division uses
// banker's rounding at a fixed scale". No arbitrary-precision decimal
// library appears anywhere in the example corpus (only stdlib math/big is
// used, and only for unrelated integer purposes), so Decimal is a small
// exact fixed-point type built directly on *big.Int: value = Mantissa *
// 10^-Scale. This keeps literal-to-value round-tripping exact, which a
// binary big.Float cannot guarantee for decimal text.
const DivisionScale = 34

// Decimal is an arbitrary-precision decimal number: Mantissa * 10^-Scale.
type Decimal struct {
	Mantissa *big.Int
	Scale    int
}

func (Decimal) Type() types.Type { return types.Decimal }

func (d Decimal) String() string {
	neg := d.Mantissa.Sign() < 0
	abs := new(big.Int).Abs(d.Mantissa)
	digits := abs.String()
	if d.Scale == 0 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	for len(digits) <= d.Scale {
		digits = "0" + digits
	}
	intPart := digits[:len(digits)-d.Scale]
	fracPart := digits[len(digits)-d.Scale:]
	s := intPart + "." + fracPart
	if neg {
		s = "-" + s
	}
	return s
}

// ParseDecimal decodes a lexer literal like "12.340" into a Decimal whose
// scale is the number of digits written after the point.
func ParseDecimal(literal string) (Decimal, bool) {
	neg := strings.HasPrefix(literal, "-")
	if neg {
		literal = literal[1:]
	}
	parts := strings.SplitN(literal, ".", 2)
	if len(parts) != 2 {
		return Decimal{}, false
	}
	digits := parts[0] + parts[1]
	m, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, false
	}
	if neg {
		m.Neg(m)
	}
	return Decimal{Mantissa: m, Scale: len(parts[1])}, true
}

func alignScale(a, b Decimal) (*big.Int, *big.Int, int) {
	scale := a.Scale
	if b.Scale > scale {
		scale = b.Scale
	}
	am := scaleUpTo(a, scale)
	bm := scaleUpTo(b, scale)
	return am, bm, scale
}

func scaleUpTo(d Decimal, scale int) *big.Int {
	if d.Scale == scale {
		return new(big.Int).Set(d.Mantissa)
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale-d.Scale)), nil)
	return new(big.Int).Mul(d.Mantissa, factor)
}

// AddDecimal returns a+b exactly.
func AddDecimal(a, b Decimal) Decimal {
	am, bm, scale := alignScale(a, b)
	return Decimal{Mantissa: new(big.Int).Add(am, bm), Scale: scale}
}

// SubDecimal returns a-b exactly.
func SubDecimal(a, b Decimal) Decimal {
	am, bm, scale := alignScale(a, b)
	return Decimal{Mantissa: new(big.Int).Sub(am, bm), Scale: scale}
}

// MulDecimal returns a*b exactly.
func MulDecimal(a, b Decimal) Decimal {
	return Decimal{Mantissa: new(big.Int).Mul(a.Mantissa, b.Mantissa), Scale: a.Scale + b.Scale}
}

// DivDecimal returns a/b rounded half-to-even at DivisionScale digits after
// the point. Reports division by zero via the second return value.
func DivDecimal(a, b Decimal) (Decimal, bool) {
	if b.Mantissa.Sign() == 0 {
		return Decimal{}, false
	}
	// a/b = (aMantissa/10^aScale) / (bMantissa/10^bScale)
	//     = aMantissa*10^bScale / (bMantissa*10^aScale)
	// Scale the numerator up by DivisionScale extra digits of precision,
	// then round the quotient half-to-even down to an integer.
	num := new(big.Int).Mul(a.Mantissa, big.NewInt(0).Exp(big.NewInt(10), big.NewInt(int64(b.Scale+DivisionScale)), nil))
	den := new(big.Int).Mul(b.Mantissa, big.NewInt(0).Exp(big.NewInt(10), big.NewInt(int64(a.Scale)), nil))

	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	q = roundHalfToEven(q, r, den)
	return Decimal{Mantissa: q, Scale: DivisionScale}, true
}

// roundHalfToEven adjusts the truncated quotient q (with remainder r over
// denominator den from a truncated QuoRem division) to the nearest
// integer, breaking exact ties toward the even neighbor — banker's rounding.
func roundHalfToEven(q, r, den *big.Int) *big.Int {
	if r.Sign() == 0 {
		return q
	}
	twiceR := new(big.Int).Mul(new(big.Int).Abs(r), big.NewInt(2))
	absDen := new(big.Int).Abs(den)
	cmp := twiceR.Cmp(absDen)

	// QuoRem truncates toward zero, so r carries the same sign as the
	// dividend and the exact quotient's sign is r's sign times den's sign;
	// rounding away from zero means nudging q one further from zero in
	// that direction.
	roundAwayFromZero := func() *big.Int {
		if r.Sign() == den.Sign() {
			return new(big.Int).Add(q, big.NewInt(1))
		}
		return new(big.Int).Sub(q, big.NewInt(1))
	}

	switch {
	case cmp < 0:
		return q
	case cmp > 0:
		return roundAwayFromZero()
	default: // exact tie: round to even
		if q.Bit(0) == 0 {
			return q
		}
		return roundAwayFromZero()
	}
}

// NegDecimal returns -d.
func NegDecimal(d Decimal) Decimal {
	return Decimal{Mantissa: new(big.Int).Neg(d.Mantissa), Scale: d.Scale}
}

// CmpDecimal compares a and b as real numbers, returning -1, 0, or 1.
func CmpDecimal(a, b Decimal) int {
	am, bm, _ := alignScale(a, b)
	return am.Cmp(bm)
}

package variant

import (
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
)

// Decimal is a fixed-point decimal value: Unscaled * 10^-Scale with at most
// Precision significant digits. The wire width follows the precision: up to
// 9 digits encode as Decimal4, up to 18 as Decimal8, up to 38 as Decimal16.
type Decimal struct {
	Unscaled  decimal128.Num
	Precision uint8
	Scale     uint8
}

// DecimalFromInt64 builds a Decimal from an int64 unscaled value.
func DecimalFromInt64(unscaled int64, precision, scale uint8) Decimal {
	return Decimal{
		Unscaled:  decimal128.FromI64(unscaled),
		Precision: precision,
		Scale:     scale,
	}
}

// Validate checks the precision and scale ranges and that the unscaled value
// fits the declared precision.
func (d Decimal) Validate() error {
	if d.Precision < 1 || d.Precision > format.MaxDecimalPrecision {
		return fmt.Errorf("%w: precision %d", errs.ErrPrecisionRange, d.Precision)
	}
	if d.Scale > d.Precision {
		return fmt.Errorf("%w: scale %d exceeds precision %d", errs.ErrPrecisionRange, d.Scale, d.Precision)
	}
	if !d.Unscaled.FitsInPrecision(int32(d.Precision)) {
		return fmt.Errorf("%w: unscaled value needs more than %d digits", errs.ErrPrecisionRange, d.Precision)
	}

	return nil
}

// primitiveType returns the wire primitive for the declared precision.
func (d Decimal) primitiveType() format.PrimitiveType {
	switch {
	case d.Precision <= format.MaxDecimal4Precision:
		return format.PrimitiveDecimal4
	case d.Precision <= format.MaxDecimal8Precision:
		return format.PrimitiveDecimal8
	default:
		return format.PrimitiveDecimal16
	}
}

// unscaledWidth returns the unscaled integer's byte width on the wire.
func (d Decimal) unscaledWidth() int {
	switch d.primitiveType() {
	case format.PrimitiveDecimal4:
		return 4
	case format.PrimitiveDecimal8:
		return 8
	default:
		return 16
	}
}

// String renders the decimal as plain number text, e.g. "-12.340" for
// unscaled -12340 with scale 3. The output is also a valid JSON number.
func (d Decimal) String() string {
	digits := d.Unscaled.BigInt().String()

	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	if d.Scale > 0 {
		if len(digits) <= int(d.Scale) {
			digits = strings.Repeat("0", int(d.Scale)-len(digits)+1) + digits
		}
		point := len(digits) - int(d.Scale)
		digits = digits[:point] + "." + digits[point:]
	}

	if neg {
		digits = "-" + digits
	}

	return digits
}

// Timestamp is an instant in microseconds since the Unix epoch. UTC reports
// whether the value is time-zone aware (normalized to UTC) or a local
// wall-clock reading with no zone attached.
type Timestamp struct {
	Micros int64
	UTC    bool
}

// Time converts the timestamp to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.UnixMicro(t.Micros).UTC()
}

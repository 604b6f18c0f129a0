package varbin

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/goccy/go-json"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
	"github.com/varbin/varbin/internal/options"
	"github.com/varbin/varbin/variant"
)

// BigNumberMode selects what FromJSON does with integral numbers outside
// int64 range.
type BigNumberMode uint8

const (
	// BigNumberError rejects the document with ErrJSONNumberRange. This is
	// the default: the bridge stays lossless unless told otherwise.
	BigNumberError BigNumberMode = iota
	// BigNumberDouble converts to a 64-bit float, losing precision beyond
	// 53 bits.
	BigNumberDouble
	// BigNumberDecimal converts to a scale-0 decimal, exact up to 38
	// digits.
	BigNumberDecimal
)

type jsonConfig struct {
	bigNumbers BigNumberMode
}

// JSONOption configures FromJSON.
type JSONOption = options.Option[*jsonConfig]

// WithBigNumberMode selects the handling of integral JSON numbers that do
// not fit int64.
func WithBigNumberMode(mode BigNumberMode) JSONOption {
	return options.NoError(func(cfg *jsonConfig) {
		cfg.bigNumbers = mode
	})
}

// JSONError reports malformed JSON input with the byte offset of the
// failure. It wraps errs.ErrJSONParse.
type JSONError struct {
	Offset int64
	Msg    string
}

func (e *JSONError) Error() string {
	return fmt.Sprintf("JSON parse error at offset %d: %s", e.Offset, e.Msg)
}

func (e *JSONError) Unwrap() error {
	return errs.ErrJSONParse
}

// FromJSON parses JSON text and encodes it as a (metadata, value) buffer
// pair.
//
// The mapping: null, booleans, strings, arrays and objects map directly;
// integral numbers become the narrowest integer; fractional or exponent
// numbers become Double (never an implicit decimal); integral numbers
// beyond int64 follow the configured BigNumberMode. Object keys feed the
// metadata dictionary, which is finalized once after the whole tree is
// walked, so field and dictionary order end up sorted regardless of input
// key order.
func FromJSON(text string, opts ...JSONOption) (metadata, value []byte, err error) {
	cfg := &jsonConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, nil, err
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, nil, asJSONError(err)
	}
	if dec.More() {
		return nil, nil, &JSONError{Offset: dec.InputOffset(), Msg: "unexpected data after top-level value"}
	}

	b, err := variant.NewBuilder()
	if err != nil {
		return nil, nil, err
	}
	if err := appendJSON(b, root, cfg); err != nil {
		return nil, nil, err
	}

	return b.Finish()
}

func asJSONError(err error) error {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return &JSONError{Offset: syntax.Offset, Msg: syntax.Error()}
	}

	return &JSONError{Offset: 0, Msg: err.Error()}
}

func appendJSON(b *variant.Builder, v any, cfg *jsonConfig) error {
	switch val := v.(type) {
	case nil:
		return b.AppendNull()
	case bool:
		return b.AppendBool(val)
	case string:
		return b.AppendString(val)
	case json.Number:
		return appendJSONNumber(b, val, cfg)
	case []any:
		arr, err := b.StartArray()
		if err != nil {
			return err
		}
		for _, elem := range val {
			if err := appendJSON(b, elem, cfg); err != nil {
				return err
			}
		}

		return arr.End()
	case map[string]any:
		obj, err := b.StartObject()
		if err != nil {
			return err
		}
		// Iteration order is irrelevant: the builder reorders fields into
		// dictionary-sort order at End.
		for key, child := range val {
			if err := obj.Field(key); err != nil {
				return err
			}
			if err := appendJSON(b, child, cfg); err != nil {
				return err
			}
		}

		return obj.End()
	default:
		return fmt.Errorf("%w: unexpected decoded type %T", errs.ErrJSONParse, v)
	}
}

func appendJSONNumber(b *variant.Builder, num json.Number, cfg *jsonConfig) error {
	s := num.String()
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return &JSONError{Offset: 0, Msg: fmt.Sprintf("number %q: %v", s, err)}
		}

		return b.AppendFloat64(f)
	}

	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return b.AppendInt(i)
	}

	// Integral but outside int64 range.
	switch cfg.bigNumbers {
	case BigNumberDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return &JSONError{Offset: 0, Msg: fmt.Sprintf("number %q: %v", s, err)}
		}

		return b.AppendFloat64(f)
	case BigNumberDecimal:
		return appendBigDecimal(b, s)
	default:
		return fmt.Errorf("%w: integral number %q exceeds int64", errs.ErrJSONNumberRange, s)
	}
}

func appendBigDecimal(b *variant.Builder, s string) error {
	bi, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return &JSONError{Offset: 0, Msg: fmt.Sprintf("number %q is not an integer", s)}
	}

	digits := len(strings.TrimPrefix(s, "-"))
	if digits > format.MaxDecimalPrecision {
		return fmt.Errorf("%w: integral number %q exceeds %d digits", errs.ErrJSONNumberRange, s, format.MaxDecimalPrecision)
	}

	// The digit guard above bounds the value well inside 128 bits.
	num := decimal128.FromBigInt(bi)

	return b.AppendDecimal(variant.Decimal{
		Unscaled:  num,
		Precision: uint8(digits),
		Scale:     0,
	})
}

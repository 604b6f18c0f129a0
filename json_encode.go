package varbin

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
	"github.com/varbin/varbin/variant"
)

const (
	secondsPerDay   = 24 * 60 * 60
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.999999Z07:00"
	// Zoneless timestamps render as local wall-clock text with no offset.
	timestampNTZLayout = "2006-01-02T15:04:05.999999"
)

// ToJSON renders an encoded buffer pair as JSON text.
//
// Object fields are emitted in stored (dictionary-sorted) order, which is
// not necessarily the key order of the JSON the pair was built from. Kinds
// JSON has no syntax for render as strings: Binary as standard base64,
// Date as "2006-01-02" and timestamps as RFC 3339 with microseconds.
// Decimals render as plain number text. NaN and infinite floats fail with
// ErrJSONRender.
func ToJSON(metadata, value []byte) (string, error) {
	v, err := variant.New(metadata, value)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := writeJSON(&sb, v); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func writeJSON(sb *strings.Builder, v variant.Value) error {
	switch kind := v.Kind(); kind {
	case format.KindNull:
		sb.WriteString("null")
		return nil
	case format.KindBool:
		b, err := v.Bool()
		if err != nil {
			return err
		}
		sb.WriteString(strconv.FormatBool(b))

		return nil
	case format.KindInt8, format.KindInt16, format.KindInt32, format.KindInt64:
		i, err := v.Int64()
		if err != nil {
			return err
		}
		sb.WriteString(strconv.FormatInt(i, 10))

		return nil
	case format.KindFloat:
		f, err := v.Float32()
		if err != nil {
			return err
		}

		return writeJSONFloat(sb, float64(f), 32)
	case format.KindDouble:
		f, err := v.Float64()
		if err != nil {
			return err
		}

		return writeJSONFloat(sb, f, 64)
	case format.KindDecimal4, format.KindDecimal8, format.KindDecimal16:
		d, err := v.Decimal()
		if err != nil {
			return err
		}
		sb.WriteString(d.String())

		return nil
	case format.KindDate:
		days, err := v.Date()
		if err != nil {
			return err
		}
		t := time.Unix(int64(days)*secondsPerDay, 0).UTC()

		return writeJSONString(sb, t.Format(dateLayout))
	case format.KindTimestamp:
		ts, err := v.Timestamp()
		if err != nil {
			return err
		}
		layout := timestampNTZLayout
		if ts.UTC {
			layout = timestampLayout
		}

		return writeJSONString(sb, ts.Time().Format(layout))
	case format.KindBinary:
		data, err := v.Binary()
		if err != nil {
			return err
		}

		return writeJSONString(sb, base64.StdEncoding.EncodeToString(data))
	case format.KindString:
		s, err := v.Str()
		if err != nil {
			return err
		}

		return writeJSONString(sb, s)
	case format.KindObject:
		return writeJSONObject(sb, v)
	case format.KindArray:
		return writeJSONArray(sb, v)
	default:
		return fmt.Errorf("%w: kind %s", errs.ErrInvalidHeader, kind)
	}
}

func writeJSONFloat(sb *strings.Builder, f float64, bits int) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v", errs.ErrJSONRender, f)
	}
	sb.WriteString(strconv.FormatFloat(f, 'g', -1, bits))

	return nil
}

func writeJSONString(sb *strings.Builder, s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return err
	}
	sb.Write(quoted)

	return nil
}

func writeJSONObject(sb *strings.Builder, v variant.Value) error {
	obj, err := v.Object()
	if err != nil {
		return err
	}

	sb.WriteByte('{')
	for i := 0; i < obj.Len(); i++ {
		name, field, err := obj.Field(i)
		if err != nil {
			return err
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := writeJSONString(sb, name); err != nil {
			return err
		}
		sb.WriteByte(':')
		if err := writeJSON(sb, field); err != nil {
			return err
		}
	}
	sb.WriteByte('}')

	return nil
}

func writeJSONArray(sb *strings.Builder, v variant.Value) error {
	arr, err := v.Array()
	if err != nil {
		return err
	}

	sb.WriteByte('[')
	for i := 0; i < arr.Len(); i++ {
		elem, err := arr.Get(i)
		if err != nil {
			return err
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := writeJSON(sb, elem); err != nil {
			return err
		}
	}
	sb.WriteByte(']')

	return nil
}

package variant

import (
	"fmt"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// Encodes a batch of uniform records and compares the footprint against the
// equivalent JSON text, raw and zstd-compressed. The dictionary stores each
// repeated field name once, so the encoded pair should beat raw JSON well
// before compression enters the picture.
func TestEncodedSizeVersusJSON(t *testing.T) {
	const records = 200

	var jsonDoc strings.Builder
	jsonDoc.WriteByte('[')

	meta, value := build(t, func(b *Builder) {
		ab, err := b.StartArray()
		require.NoError(t, err)

		for i := 0; i < records; i++ {
			ob, err := b.StartObject()
			require.NoError(t, err)
			require.NoError(t, ob.Field("device_id"))
			require.NoError(t, b.AppendInt(int64(1000+i)))
			require.NoError(t, ob.Field("temperature"))
			require.NoError(t, b.AppendFloat64(20.0+float64(i)/10))
			require.NoError(t, ob.Field("status"))
			require.NoError(t, b.AppendString("active"))
			require.NoError(t, ob.End())

			if i > 0 {
				jsonDoc.WriteByte(',')
			}
			fmt.Fprintf(&jsonDoc, `{"device_id":%d,"temperature":%g,"status":%q}`,
				1000+i, 20.0+float64(i)/10, "active")
		}

		require.NoError(t, ab.End())
	})
	jsonDoc.WriteByte(']')

	encodedSize := len(meta) + len(value)
	jsonSize := jsonDoc.Len()
	require.Less(t, encodedSize, jsonSize,
		"encoded pair should undercut raw JSON on repeated field names")

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()

	pair := append(append([]byte(nil), meta...), value...)
	encodedZstd := len(enc.EncodeAll(pair, nil))
	jsonZstd := len(enc.EncodeAll([]byte(jsonDoc.String()), nil))

	t.Logf("records=%d encoded=%dB json=%dB encoded+zstd=%dB json+zstd=%dB",
		records, encodedSize, jsonSize, encodedZstd, jsonZstd)
}

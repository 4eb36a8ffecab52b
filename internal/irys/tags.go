package irys

import (
	"bytes"
	"encoding/binary"
)

// Tag is a name/value metadata pair attached to an uploaded item.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// encodeTags serializes tags as an Avro array of {name: bytes, value: bytes}
// records. No tags encode to zero bytes.
func encodeTags(tags []Tag) []byte {
	if len(tags) == 0 {
		return nil
	}
	var buf bytes.Buffer
	writeLong(&buf, int64(len(tags)))
	for _, t := range tags {
		writeBytes(&buf, []byte(t.Name))
		writeBytes(&buf, []byte(t.Value))
	}
	writeLong(&buf, 0)
	return buf.Bytes()
}

func writeLong(buf *bytes.Buffer, n int64) {
	var tmp [binary.MaxVarintLen64]byte
	buf.Write(tmp[:binary.PutVarint(tmp[:], n)])
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeLong(buf, int64(len(b)))
	buf.Write(b)
}

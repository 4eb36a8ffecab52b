package irys

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

const anchorLength = 32

// DataItem is a signed ANS-104 data item ready to be posted to a node.
type DataItem struct {
	Owner     []byte
	Anchor    []byte
	Tags      []Tag
	Data      []byte
	Signature []byte

	rawTags []byte
}

// NewDataItem builds and signs a data item with a random anchor.
func NewDataItem(s *Signer, data []byte, tags []Tag) (*DataItem, error) {
	anchor := make([]byte, anchorLength)
	if _, err := rand.Read(anchor); err != nil {
		return nil, fmt.Errorf("generate anchor: %w", err)
	}
	item := &DataItem{
		Owner:   s.PublicKey(),
		Anchor:  anchor,
		Tags:    tags,
		Data:    data,
		rawTags: encodeTags(tags),
	}
	item.Signature = s.Sign(item.signatureData())
	return item, nil
}

func (d *DataItem) signatureData() []byte {
	return deepHash([][]byte{
		[]byte("dataitem"),
		[]byte("1"),
		[]byte("3"),
		d.Owner,
		nil, // target
		d.Anchor,
		d.rawTags,
		d.Data,
	})
}

// ID is the base64url transaction id derived from the signature.
func (d *DataItem) ID() string {
	sum := sha256.Sum256(d.Signature)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Bytes returns the binary ANS-104 encoding.
func (d *DataItem) Bytes() []byte {
	var buf bytes.Buffer
	var u16 [2]byte
	var u64 [8]byte

	binary.LittleEndian.PutUint16(u16[:], SignatureTypeEthereum)
	buf.Write(u16[:])
	buf.Write(d.Signature)
	buf.Write(d.Owner)
	buf.WriteByte(0) // no target
	buf.WriteByte(1)
	buf.Write(d.Anchor)
	binary.LittleEndian.PutUint64(u64[:], uint64(len(d.Tags)))
	buf.Write(u64[:])
	binary.LittleEndian.PutUint64(u64[:], uint64(len(d.rawTags)))
	buf.Write(u64[:])
	buf.Write(d.rawTags)
	buf.Write(d.Data)
	return buf.Bytes()
}

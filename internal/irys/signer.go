package irys

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

const (
	// SignatureTypeEthereum is the ANS-104 signature type for secp256k1
	// personal-message signatures.
	SignatureTypeEthereum = 3
	signatureLength       = 65
	ownerLength           = 65
)

// Signer signs data items with an Ethereum-style secp256k1 key.
type Signer struct {
	key     *secp256k1.PrivateKey
	pub     []byte
	address string
}

// NewSigner parses a hex encoded private key, with or without a 0x prefix.
func NewSigner(hexKey string) (*Signer, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("invalid private key: expected 32 bytes, got %d", len(raw))
	}
	key := secp256k1.PrivKeyFromBytes(raw)
	pub := key.PubKey().SerializeUncompressed()
	return &Signer{
		key:     key,
		pub:     pub,
		address: "0x" + hex.EncodeToString(keccak256(pub[1:])[12:]),
	}, nil
}

// Address returns the lower-case hex account address.
func (s *Signer) Address() string { return s.address }

// PublicKey returns the 65-byte uncompressed public key.
func (s *Signer) PublicKey() []byte { return s.pub }

// Sign returns an EIP-191 personal-message signature of msg laid out as
// r || s || v with v in {27, 28}.
func (s *Signer) Sign(msg []byte) []byte {
	compact := ecdsa.SignCompact(s.key, personalHash(msg), false)
	sig := make([]byte, signatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig
}

func personalHash(msg []byte) []byte {
	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(msg))
	return keccak256(append([]byte(prefix), msg...))
}

func keccak256(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	return h.Sum(nil)
}

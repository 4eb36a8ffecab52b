package irys

import (
	"crypto/sha512"
	"strconv"
)

// deepHash computes the ANS-104 deep hash of a blob or a list of chunks.
func deepHash(chunks [][]byte) []byte {
	tag := append([]byte("list"), strconv.Itoa(len(chunks))...)
	acc := sha384(tag)
	for _, c := range chunks {
		acc = sha384(append(acc, blobHash(c)...))
	}
	return acc
}

func blobHash(data []byte) []byte {
	tag := append([]byte("blob"), strconv.Itoa(len(data))...)
	return sha384(append(sha384(tag), sha384(data)...))
}

func sha384(b []byte) []byte {
	sum := sha512.Sum384(b)
	return sum[:]
}

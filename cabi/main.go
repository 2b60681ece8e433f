// Program cabi builds Grain128-AEAD as a C shared library for
// use from other languages.
//
// Build with
//
//    go build -buildmode=c-shared -o libgrain128aead.so .
//
// The exported functions re-export the package's Encrypt and
// Decrypt over fixed-size buffers and carry no cipher logic.
package main

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/ericlagergren/grain"
)

func view(p *C.uint8_t, n C.size_t) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

//export grain_128aead_encrypt
func grain_128aead_encrypt(key, nonce, data *C.uint8_t, dlen C.size_t, txt, enc *C.uint8_t, ctlen C.size_t, tag *C.uint8_t) {
	ct, t := grain.Encrypt(
		view(key, grain.KeySize),
		view(nonce, grain.NonceSize),
		view(data, dlen),
		view(txt, ctlen),
	)
	copy(view(enc, ctlen), ct)
	copy(view(tag, grain.TagSize), t)
}

//export grain_128aead_decrypt
func grain_128aead_decrypt(key, nonce, tag, data *C.uint8_t, dlen C.size_t, enc, txt *C.uint8_t, ctlen C.size_t) C.bool {
	pt, ok := grain.Decrypt(
		view(key, grain.KeySize),
		view(nonce, grain.NonceSize),
		view(tag, grain.TagSize),
		view(data, dlen),
		view(enc, ctlen),
	)
	copy(view(txt, ctlen), pt)
	return C.bool(ok)
}

func main() {}

package grain_test

import (
	"encoding/hex"
	"fmt"

	"github.com/ericlagergren/grain"
)

func Example() {
	key, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	nonce, _ := hex.DecodeString("000102030405060708090a0b")
	ad := []byte("Grain-128AEAD")
	pt := []byte("a lightweight AEAD")

	ct, tag := grain.Encrypt(key, nonce, ad, pt)
	fmt.Printf("ciphertext: %x\n", ct)
	fmt.Printf("tag: %x\n", tag)

	got, ok := grain.Decrypt(key, nonce, tag, ad, ct)
	fmt.Printf("authenticated: %t\n", ok)
	fmt.Printf("plaintext: %s\n", got)

	// Output:
	// ciphertext: 75d6d1e9d35195fdf3e4ce16cb66871af207
	// tag: e1f469b94452a2df
	// authenticated: true
	// plaintext: a lightweight AEAD
}

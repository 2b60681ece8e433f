// Package grain implements the Grain128-AEAD cipher.
//
// References:
//
//    [grain]: https://grain-128aead.github.io/
//
package grain

import (
	"crypto/cipher"
	"errors"
	"runtime"
	"strconv"

	"github.com/ericlagergren/grain/internal/subtle"
)

var errOpen = errors.New("grain: message authentication failed")

const (
	// KeySize is the size in bytes of a Grain128-AEAD key.
	KeySize = 16
	// NonceSize is the size in bytes of a Grain128-AEAD nonce.
	NonceSize = 12
	// TagSize is the size in bytes of a Grain128-AEAD
	// authentication tag.
	TagSize = 8
)

// Encrypt encrypts plaintext, authenticating it together with
// additionalData, and returns the ciphertext and the 64-bit
// authentication tag.
//
// The key must be exactly KeySize bytes and the nonce exactly
// NonceSize bytes; Encrypt panics otherwise. A key, nonce pair
// must never be reused, and must not be used to encrypt more
// than 2^80 bits, including additional authenticated data.
func Encrypt(key, nonce, additionalData, plaintext []byte) (ciphertext, tag []byte) {
	if len(key) != KeySize {
		panic("grain: incorrect key length: " + strconv.Itoa(len(key)))
	}
	if len(nonce) != NonceSize {
		panic("grain: incorrect nonce length: " + strconv.Itoa(len(nonce)))
	}
	var s state
	s.initialize(key, nonce)
	s.authData(additionalData)

	ciphertext = make([]byte, len(plaintext))
	s.seal(ciphertext, plaintext)
	s.authPad()

	tag = make([]byte, TagSize)
	s.tag(tag)
	return ciphertext, tag
}

// Decrypt decrypts ciphertext, authenticating it together with
// additionalData against tag, and reports whether
// authentication succeeded.
//
// The returned plaintext always has the same length as the
// ciphertext. If authentication fails every byte of it is zero:
// unauthenticated plaintext is never released. A tag that is
// not exactly TagSize bytes fails authentication.
//
// The key must be exactly KeySize bytes and the nonce exactly
// NonceSize bytes; Decrypt panics otherwise.
func Decrypt(key, nonce, tag, additionalData, ciphertext []byte) (plaintext []byte, ok bool) {
	if len(key) != KeySize {
		panic("grain: incorrect key length: " + strconv.Itoa(len(key)))
	}
	if len(nonce) != NonceSize {
		panic("grain: incorrect nonce length: " + strconv.Itoa(len(nonce)))
	}
	plaintext = make([]byte, len(ciphertext))
	if len(tag) != TagSize {
		return plaintext, false
	}

	var s state
	s.initialize(key, nonce)
	s.authData(additionalData)
	s.open(plaintext, ciphertext)
	s.authPad()

	expectedTag := make([]byte, TagSize)
	s.tag(expectedTag)

	if subtle.ConstantTimeCompare(expectedTag, tag) != 1 {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return plaintext, false
	}
	return plaintext, true
}

// New creates a 128-bit Grain128-AEAD AEAD. Seal appends the
// tag to the ciphertext.
//
// Grain128-AEAD must not be used to encrypt more than 2^80 bits
// per key, nonce pair, including additional authenticated data.
func New(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, errors.New("grain: bad key length")
	}
	var a aead
	copy(a.key[:], key)
	return &a, nil
}

type aead struct {
	key [KeySize]byte
}

var _ cipher.AEAD = (*aead)(nil)

func (a *aead) NonceSize() int {
	return NonceSize
}

func (a *aead) Overhead() int {
	return TagSize
}

func (a *aead) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != NonceSize {
		panic("grain: incorrect nonce length: " + strconv.Itoa(len(nonce)))
	}
	var s state
	s.initialize(a.key[:], nonce)

	ret, out := subtle.SliceForAppend(dst, len(plaintext)+TagSize)
	if subtle.InexactOverlap(out, plaintext) {
		panic("grain: invalid buffer overlap")
	}

	s.authData(additionalData)
	s.seal(out[:len(plaintext)], plaintext)
	s.authPad()
	s.tag(out[len(plaintext):])

	return ret
}

func (a *aead) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		panic("grain: incorrect nonce length: " + strconv.Itoa(len(nonce)))
	}
	if len(ciphertext) < TagSize {
		return nil, errOpen
	}
	tag := ciphertext[len(ciphertext)-TagSize:]
	ciphertext = ciphertext[:len(ciphertext)-TagSize]

	var s state
	s.initialize(a.key[:], nonce)

	ret, out := subtle.SliceForAppend(dst, len(ciphertext))
	if subtle.InexactOverlap(out, ciphertext) {
		panic("grain: invalid buffer overlap")
	}

	s.authData(additionalData)
	s.open(out, ciphertext)
	s.authPad()

	expectedTag := make([]byte, TagSize)
	s.tag(expectedTag)

	if subtle.ConstantTimeCompare(expectedTag, tag) != 1 {
		for i := range out {
			out[i] = 0
		}
		runtime.KeepAlive(out)
		return nil, errOpen
	}
	return ret, nil
}

// initialize loads the key and nonce and clocks the cipher 512
// times, leaving the pre-output and authenticator generators
// ready. Register updates never mix in keystream bits after
// this point.
func (s *state) initialize(key, nonce []byte) {
	s.init32(key, nonce)
}

// authData authenticates the DER-encoded length of ad followed
// by ad itself. Associated data is authenticated, never
// encrypted, and the length prefix is never transmitted.
func (s *state) authData(ad []byte) {
	s.auth8(encodeDER(len(ad)))
	n := len(ad) &^ 3
	s.auth32(ad[:n])
	s.auth8(ad[n:])
}

// seal encrypts src into dst, feeding every plaintext bit into
// the authenticator.
func (s *state) seal(dst, src []byte) {
	n := len(src) &^ 3
	s.seal32(dst[:n], src[:n])
	s.seal8(dst[n:], src[n:])
}

// open decrypts src into dst, feeding every recovered plaintext
// bit into the authenticator.
func (s *state) open(dst, src []byte) {
	n := len(src) &^ 3
	s.open32(dst[:n], src[:n])
	s.open8(dst[n:], src[n:])
}

// tag writes the final accumulator to dst.
func (s *state) tag(dst []byte) {
	copy(dst, s.acc[:])
}

// encodeDER encodes the non-negative length n in one to nine
// bytes: n itself if n < 128, otherwise 0x80|k followed by the
// k big-endian bytes of n.
func encodeDER(n int) []byte {
	if n < 128 {
		return []byte{byte(n)}
	}
	var k int
	for t := n; t != 0; t >>= 8 {
		k++
	}
	der := make([]byte, k+1)
	der[0] = byte(0x80 | k)
	for i := k; i > 0; i-- {
		der[i] = byte(n)
		n >>= 8
	}
	return der
}

package grain

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"
)

func unhex(s string) []byte {
	p, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return p
}

// katTests were generated with the Grain-128AEAD reference
// implementation.
var katTests = []struct {
	key   string
	nonce string
	ad    string
	pt    string
	ct    string
	tag   string
}{
	{
		key:   "00000000000000000000000000000000",
		nonce: "000000000000000000000000",
		tag:   "7137d5998c2de4a5",
	},
	{
		key:   "000102030405060708090a0b0c0d0e0f",
		nonce: "000102030405060708090a0b",
		tag:   "d51fd5d16177b434",
	},
	{
		key:   "000102030405060708090a0b0c0d0e0f",
		nonce: "000102030405060708090a0b",
		ad:    "00010203",
		tag:   "25b65d85516d2321",
	},
	{
		key:   "000102030405060708090a0b0c0d0e0f",
		nonce: "000102030405060708090a0b",
		pt:    "00010203",
		ct:    "21678706",
		tag:   "a9f28630b96bc7bd",
	},
	{
		key:   "00000000000000000000000000000000",
		nonce: "000000000000000000000000",
		ad:    "00",
		pt:    "00",
		ct:    "eb",
		tag:   "be23d3351ec586ed",
	},
	{
		key:   "000102030405060708090a0b0c0d0e0f",
		nonce: "000102030405060708090a0b",
		ad:    "000102030405060708090a0b0c0d0e0f10",
		pt:    "000102030405060708090a0b0c0d0e0f1011121314151617",
		ct:    "b438e3899288af79b74fcc54bf4ee4d81ce74f5f28dce8bd",
		tag:   "2b4dad3e2528202c",
	},
	{
		key:   "000102030405060708090a0b0c0d0e0f",
		nonce: "000102030405060708090a0b",
		ad:    "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		pt:    "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		ct:    "d70df45e4839cff9a2c139c719805cfcaab5ab651b99a751fbf4b8d75abd6d97",
		tag:   "f543fe1cfbe56f72",
	},
}

func TestEncrypt(t *testing.T) {
	for i, tc := range katTests {
		key := unhex(tc.key)
		nonce := unhex(tc.nonce)
		ad := unhex(tc.ad)
		pt := unhex(tc.pt)

		ct, tag := Encrypt(key, nonce, ad, pt)
		if !bytes.Equal(ct, unhex(tc.ct)) {
			t.Errorf("#%d: ciphertext: expected %s, got %x", i, tc.ct, ct)
		}
		if !bytes.Equal(tag, unhex(tc.tag)) {
			t.Errorf("#%d: tag: expected %s, got %x", i, tc.tag, tag)
		}

		got, ok := Decrypt(key, nonce, tag, ad, ct)
		if !ok {
			t.Errorf("#%d: authentication failed", i)
		}
		if !bytes.Equal(got, pt) {
			t.Errorf("#%d: plaintext: expected %x, got %x", i, pt, got)
		}
	}
}

// TestLongAssociatedData pushes the length prefix into its
// multi-byte form.
func TestLongAssociatedData(t *testing.T) {
	key := unhex("000102030405060708090a0b0c0d0e0f")
	nonce := unhex("000102030405060708090a0b")
	ad := make([]byte, 300)
	for i := range ad {
		ad[i] = byte(i*7 + 3)
	}
	pt := unhex("0001020304")

	ct, tag := Encrypt(key, nonce, ad, pt)
	if !bytes.Equal(ct, unhex("e98887844b")) {
		t.Errorf("ciphertext: got %x", ct)
	}
	if !bytes.Equal(tag, unhex("bfb674ef381ccad4")) {
		t.Errorf("tag: got %x", tag)
	}

	got, ok := Decrypt(key, nonce, tag, ad, ct)
	if !ok || !bytes.Equal(got, pt) {
		t.Errorf("decrypt: got %x, %t", got, ok)
	}
}

func TestSealOpen(t *testing.T) {
	tc := katTests[5]
	key := unhex(tc.key)
	nonce := unhex(tc.nonce)
	ad := unhex(tc.ad)
	pt := unhex(tc.pt)

	aead, err := New(key)
	if err != nil {
		t.Fatal(err)
	}
	ct := aead.Seal(nil, nonce, pt, ad)
	want := append(unhex(tc.ct), unhex(tc.tag)...)
	if !bytes.Equal(ct, want) {
		t.Fatalf("expected %x, got %x", want, ct)
	}

	got, err := aead.Open(nil, nonce, ct, ad)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, pt) {
		t.Fatalf("expected %x, got %x", pt, got)
	}

	ct[0] ^= 1
	if _, err := aead.Open(nil, nonce, ct, ad); err != errOpen {
		t.Fatalf("expected %v, got %v", errOpen, err)
	}
	ct[0] ^= 1

	if _, err := aead.Open(nil, nonce, ct[:TagSize-1], ad); err != errOpen {
		t.Fatalf("expected %v, got %v", errOpen, err)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0x67726169))
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	for i := 0; i < 100; i++ {
		rng.Read(key)
		rng.Read(nonce)
		ad := make([]byte, rng.Intn(257))
		pt := make([]byte, rng.Intn(257))
		rng.Read(ad)
		rng.Read(pt)

		ct, tag := Encrypt(key, nonce, ad, pt)
		if len(ct) != len(pt) {
			t.Fatalf("ciphertext length: expected %d, got %d", len(pt), len(ct))
		}
		got, ok := Decrypt(key, nonce, tag, ad, ct)
		if !ok {
			t.Fatalf("ad=%d pt=%d: authentication failed", len(ad), len(pt))
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("expected %x, got %x", pt, got)
		}
	}
}

// TestTamperSensitivity flips every bit of the ciphertext, tag,
// and associated data in turn; each flip must fail
// authentication and release only zeros.
func TestTamperSensitivity(t *testing.T) {
	tc := katTests[5]
	key := unhex(tc.key)
	nonce := unhex(tc.nonce)
	ad := unhex(tc.ad)
	ct := unhex(tc.ct)
	tag := unhex(tc.tag)

	check := func(what string, i int, tag, ad, ct []byte) {
		pt, ok := Decrypt(key, nonce, tag, ad, ct)
		if ok {
			t.Fatalf("%s bit %d: tampered input authenticated", what, i)
		}
		for j, c := range pt {
			if c != 0 {
				t.Fatalf("%s bit %d: non-zero plaintext byte %d", what, i, j)
			}
		}
	}

	for i := 0; i < len(ct)*8; i++ {
		ct[i/8] ^= 1 << (i % 8)
		check("ciphertext", i, tag, ad, ct)
		ct[i/8] ^= 1 << (i % 8)
	}
	for i := 0; i < len(tag)*8; i++ {
		tag[i/8] ^= 1 << (i % 8)
		check("tag", i, tag, ad, ct)
		tag[i/8] ^= 1 << (i % 8)
	}
	for i := 0; i < len(ad)*8; i++ {
		ad[i/8] ^= 1 << (i % 8)
		check("ad", i, tag, ad, ct)
		ad[i/8] ^= 1 << (i % 8)
	}
}

func TestEncodeDER(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x81, 0x80}},
		{300, []byte{0x82, 0x01, 0x2c}},
		{65535, []byte{0x82, 0xff, 0xff}},
		{1 << 16, []byte{0x83, 0x01, 0x00, 0x00}},
	} {
		if got := encodeDER(tc.n); !bytes.Equal(got, tc.want) {
			t.Errorf("encodeDER(%d): expected %x, got %x", tc.n, tc.want, got)
		}
	}
}

func TestEmptyInputs(t *testing.T) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)

	ct, tag := Encrypt(key, nonce, nil, nil)
	if len(ct) != 0 {
		t.Fatalf("expected empty ciphertext, got %x", ct)
	}
	if len(tag) != TagSize {
		t.Fatalf("expected %d-byte tag, got %d", TagSize, len(tag))
	}
	pt, ok := Decrypt(key, nonce, tag, nil, ct)
	if !ok {
		t.Fatal("authentication failed")
	}
	if len(pt) != 0 {
		t.Fatalf("expected empty plaintext, got %x", pt)
	}
}

func TestDecryptBadTagLength(t *testing.T) {
	tc := katTests[5]
	key := unhex(tc.key)
	nonce := unhex(tc.nonce)
	ad := unhex(tc.ad)
	ct := unhex(tc.ct)
	tag := unhex(tc.tag)

	pt, ok := Decrypt(key, nonce, tag[:TagSize-1], ad, ct)
	if ok {
		t.Fatal("truncated tag authenticated")
	}
	if len(pt) != len(ct) {
		t.Fatalf("expected %d bytes, got %d", len(ct), len(pt))
	}
	for i, c := range pt {
		if c != 0 {
			t.Fatalf("non-zero plaintext byte %d", i)
		}
	}
}

func benchmarkEncrypt(b *testing.B, n int) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	ad := make([]byte, 32)
	pt := make([]byte, n)
	dst := make([]byte, n+TagSize)

	aead, err := New(key)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(ad) + len(pt)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		aead.Seal(dst[:0], nonce, pt, ad)
	}
}

func benchmarkDecrypt(b *testing.B, n int) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	ad := make([]byte, 32)
	pt := make([]byte, n)

	aead, err := New(key)
	if err != nil {
		b.Fatal(err)
	}
	ct := aead.Seal(nil, nonce, pt, ad)
	dst := make([]byte, n)

	b.SetBytes(int64(len(ad) + len(ct) - TagSize))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := aead.Open(dst[:0], nonce, ct, ad); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncrypt64(b *testing.B)   { benchmarkEncrypt(b, 64) }
func BenchmarkEncrypt1K(b *testing.B)   { benchmarkEncrypt(b, 1024) }
func BenchmarkEncrypt4K(b *testing.B)   { benchmarkEncrypt(b, 4096) }
func BenchmarkDecrypt64(b *testing.B)   { benchmarkDecrypt(b, 64) }
func BenchmarkDecrypt1K(b *testing.B)   { benchmarkDecrypt(b, 1024) }
func BenchmarkDecrypt4K(b *testing.B)   { benchmarkDecrypt(b, 4096) }

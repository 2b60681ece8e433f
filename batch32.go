package grain

import "encoding/binary"

// This file clocks the cipher 32 bits at a time over
// little-endian register lanes. It is the bulk path; byte-sized
// tails fall back to the byte-wide variant.

// h32 is the word-wide nonlinear filter h(x); see h1 for the
// tap layout.
func h32(lw, nw *[4]uint32) uint32 {
	x0 := bits32(nw, 12)
	x1 := bits32(lw, 8)
	x2 := bits32(lw, 13)
	x3 := bits32(lw, 20)
	x4 := bits32(nw, 95)
	x5 := bits32(lw, 42)
	x6 := bits32(lw, 60)
	x7 := bits32(lw, 79)
	x8 := bits32(lw, 94)
	return x0&x1 ^ x2&x3 ^ x4&x5 ^ x6&x7 ^ x0&x4&x8
}

// ksb32 produces 32 keystream bits.
func ksb32(lw, nw *[4]uint32) uint32 {
	y := h32(lw, nw) ^ bits32(lw, 93)
	y ^= bits32(nw, 2) ^ bits32(nw, 15) ^ bits32(nw, 36)
	y ^= bits32(nw, 45) ^ bits32(nw, 64) ^ bits32(nw, 73)
	y ^= bits32(nw, 89)
	return y
}

// l32 produces the next 32 LFSR bits.
func l32(lw *[4]uint32) uint32 {
	return bits32(lw, 0) ^ bits32(lw, 7) ^ bits32(lw, 38) ^
		bits32(lw, 70) ^ bits32(lw, 81) ^ bits32(lw, 96)
}

// f32 produces the next 32 NFSR bits.
func f32(lw, nw *[4]uint32) uint32 {
	b0 := bits32(nw, 0)
	b26 := bits32(nw, 26)
	b56 := bits32(nw, 56)
	b91 := bits32(nw, 91)
	b96 := bits32(nw, 96)

	v := bits32(lw, 0) ^ b0 ^ b26 ^ b56 ^ b91 ^ b96
	v ^= bits32(nw, 3) & bits32(nw, 67)
	v ^= bits32(nw, 11) & bits32(nw, 13)
	v ^= bits32(nw, 17) & bits32(nw, 18)
	v ^= bits32(nw, 27) & bits32(nw, 59)
	v ^= bits32(nw, 40) & bits32(nw, 48)
	v ^= bits32(nw, 61) & bits32(nw, 65)
	v ^= bits32(nw, 68) & bits32(nw, 84)
	v ^= bits32(nw, 22) & bits32(nw, 24) & bits32(nw, 25)
	v ^= bits32(nw, 70) & bits32(nw, 78) & bits32(nw, 82)
	v ^= bits32(nw, 88) & bits32(nw, 92) & bits32(nw, 93) & bits32(nw, 95)
	return v
}

// clock32 computes 32 keystream bits and the next 32 L and F
// bits without mutating the registers.
func (s *state) clock32() (y, ln, fn uint32) {
	lw := words(&s.lfsr)
	nw := words(&s.nfsr)
	return ksb32(&lw, &nw), l32(&lw), f32(&lw, &nw)
}

// update32 shifts both registers by 32 bits.
func (s *state) update32(ln, fn uint32) {
	shift32(&s.lfsr, ln)
	shift32(&s.nfsr, fn)
}

// init32 is the word-wide form of initialize: 512 clocks in
// sixteen 32-bit steps.
func (s *state) init32(key, nonce []byte) {
	s.load(key, nonce)

	for t := 0; t < 10; t++ {
		y, ln, fn := s.clock32()
		s.update32(ln^y, fn^y)
	}
	for t := 0; t < 2; t++ {
		ka := binary.LittleEndian.Uint32(key[8+4*t:])
		kb := binary.LittleEndian.Uint32(key[4*t:])
		y, ln, fn := s.clock32()
		s.update32(ln^y^ka, fn^y^kb)
	}
	for t := 0; t < 2; t++ {
		y, ln, fn := s.clock32()
		binary.LittleEndian.PutUint32(s.acc[4*t:], y)
		s.update32(ln, fn)
	}
	for t := 0; t < 2; t++ {
		y, ln, fn := s.clock32()
		binary.LittleEndian.PutUint32(s.reg[4*t:], y)
		s.update32(ln, fn)
	}
}

// deinterleave32 splits v into its even- and odd-indexed bits,
// each right-aligned in the low half.
func deinterleave32(v uint32) (even, odd uint32) {
	x := uint64(v&0xaaaaaaaa)<<31 | uint64(v&0x55555555)
	x = (x>>1 | x) & 0x3333333333333333
	x = (x>>2 | x) & 0x0f0f0f0f0f0f0f0f
	x = (x>>4 | x) & 0x00ff00ff00ff00ff
	x = (x>>8 | x) & 0x0000ffff0000ffff
	return uint32(x), uint32(x >> 32)
}

// split32 separates two consecutive keystream words into the
// even half (the encryption mask) and the odd half (the MAC
// auth bits), LSB first.
func split32(y0, y1 uint32) (even, odd uint32) {
	e0, o0 := deinterleave32(y0)
	e1, o1 := deinterleave32(y1)
	return e1<<16 | e0, o1<<16 | o0
}

// accumulate32 applies the MAC update law to 32 message bits.
func (s *state) accumulate32(m, k uint32) {
	acc, reg := s.mac()
	for i := 0; i < 32; i++ {
		if m>>i&1 != 0 {
			acc ^= reg
		}
		reg = reg>>1 | uint64(k>>i&1)<<63
	}
	s.setMac(acc, reg)
}

// step32 draws the even/odd keystream pair covering 32 message
// bits (64 clocks).
func (s *state) step32() (even, odd uint32) {
	y0, ln, fn := s.clock32()
	s.update32(ln, fn)
	y1, ln, fn := s.clock32()
	s.update32(ln, fn)
	return split32(y0, y1)
}

// auth32 authenticates p, whose length must be a multiple of
// four, one word at a time.
func (s *state) auth32(p []byte) {
	for len(p) >= 4 {
		_, odd := s.step32()
		s.accumulate32(binary.LittleEndian.Uint32(p), odd)
		p = p[4:]
	}
}

// seal32 encrypts src, whose length must be a multiple of four,
// into dst one word at a time.
func (s *state) seal32(dst, src []byte) {
	for len(src) >= 4 {
		even, odd := s.step32()
		m := binary.LittleEndian.Uint32(src)
		binary.LittleEndian.PutUint32(dst, m^even)
		s.accumulate32(m, odd)
		src = src[4:]
		dst = dst[4:]
	}
}

// open32 decrypts src, whose length must be a multiple of four,
// into dst one word at a time, feeding the recovered plaintext
// into the MAC.
func (s *state) open32(dst, src []byte) {
	for len(src) >= 4 {
		even, odd := s.step32()
		m := binary.LittleEndian.Uint32(src) ^ even
		binary.LittleEndian.PutUint32(dst, m)
		s.accumulate32(m, odd)
		src = src[4:]
		dst = dst[4:]
	}
}

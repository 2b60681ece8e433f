package grain

// This file clocks the cipher eight bits at a time. Every tap
// becomes an eight-bit window, so one call to each boolean
// function produces the output of eight serial clocks.

// h8 is the byte-wide nonlinear filter h(x); see h1 for the tap
// layout.
func h8(s *state) byte {
	x0 := bits8(&s.nfsr, 12)
	x1 := bits8(&s.lfsr, 8)
	x2 := bits8(&s.lfsr, 13)
	x3 := bits8(&s.lfsr, 20)
	x4 := bits8(&s.nfsr, 95)
	x5 := bits8(&s.lfsr, 42)
	x6 := bits8(&s.lfsr, 60)
	x7 := bits8(&s.lfsr, 79)
	x8 := bits8(&s.lfsr, 94)
	return x0&x1 ^ x2&x3 ^ x4&x5 ^ x6&x7 ^ x0&x4&x8
}

// ksb8 produces eight keystream bits.
func ksb8(s *state) byte {
	y := h8(s) ^ bits8(&s.lfsr, 93)
	y ^= bits8(&s.nfsr, 2) ^ bits8(&s.nfsr, 15) ^ bits8(&s.nfsr, 36)
	y ^= bits8(&s.nfsr, 45) ^ bits8(&s.nfsr, 64) ^ bits8(&s.nfsr, 73)
	y ^= bits8(&s.nfsr, 89)
	return y
}

// l8 produces the next eight LFSR bits.
func l8(s *state) byte {
	return bits8(&s.lfsr, 0) ^ bits8(&s.lfsr, 7) ^ bits8(&s.lfsr, 38) ^
		bits8(&s.lfsr, 70) ^ bits8(&s.lfsr, 81) ^ bits8(&s.lfsr, 96)
}

// f8 produces the next eight NFSR bits.
func f8(s *state) byte {
	b0 := bits8(&s.nfsr, 0)
	b26 := bits8(&s.nfsr, 26)
	b56 := bits8(&s.nfsr, 56)
	b91 := bits8(&s.nfsr, 91)
	b96 := bits8(&s.nfsr, 96)

	v := bits8(&s.lfsr, 0) ^ b0 ^ b26 ^ b56 ^ b91 ^ b96
	v ^= bits8(&s.nfsr, 3) & bits8(&s.nfsr, 67)
	v ^= bits8(&s.nfsr, 11) & bits8(&s.nfsr, 13)
	v ^= bits8(&s.nfsr, 17) & bits8(&s.nfsr, 18)
	v ^= bits8(&s.nfsr, 27) & bits8(&s.nfsr, 59)
	v ^= bits8(&s.nfsr, 40) & bits8(&s.nfsr, 48)
	v ^= bits8(&s.nfsr, 61) & bits8(&s.nfsr, 65)
	v ^= bits8(&s.nfsr, 68) & bits8(&s.nfsr, 84)
	v ^= bits8(&s.nfsr, 22) & bits8(&s.nfsr, 24) & bits8(&s.nfsr, 25)
	v ^= bits8(&s.nfsr, 70) & bits8(&s.nfsr, 78) & bits8(&s.nfsr, 82)
	v ^= bits8(&s.nfsr, 88) & bits8(&s.nfsr, 92) & bits8(&s.nfsr, 93) & bits8(&s.nfsr, 95)
	return v
}

// clock8 computes eight keystream bits and the next eight L and
// F bits without mutating the registers.
func (s *state) clock8() (y, ln, fn byte) {
	return ksb8(s), l8(s), f8(s)
}

// update8 shifts both registers by eight bits.
func (s *state) update8(ln, fn byte) {
	shift8(&s.lfsr, ln)
	shift8(&s.nfsr, fn)
}

// init8 is the byte-wide form of initialize: 512 clocks in 64
// eight-bit steps.
func (s *state) init8(key, nonce []byte) {
	s.load(key, nonce)

	for t := 0; t < 40; t++ {
		y, ln, fn := s.clock8()
		s.update8(ln^y, fn^y)
	}
	for t := 0; t < 8; t++ {
		y, ln, fn := s.clock8()
		s.update8(ln^y^key[t+8], fn^y^key[t])
	}
	for t := 0; t < 8; t++ {
		y, ln, fn := s.clock8()
		s.acc[t] = y
		s.update8(ln, fn)
	}
	for t := 0; t < 8; t++ {
		y, ln, fn := s.clock8()
		s.reg[t] = y
		s.update8(ln, fn)
	}
}

// deinterleave8 splits v into its even- and odd-indexed bits,
// each right-aligned in the low nibble.
func deinterleave8(v byte) (even, odd byte) {
	x := uint16(v&0xaa)<<7 | uint16(v&0x55)
	x = (x>>1 | x) & 0x3333
	x = (x>>2 | x) & 0x0f0f
	return byte(x), byte(x >> 8)
}

// split8 separates two consecutive keystream bytes into the
// even half (the encryption mask) and the odd half (the MAC
// auth bits), LSB first.
func split8(y0, y1 byte) (even, odd byte) {
	e0, o0 := deinterleave8(y0)
	e1, o1 := deinterleave8(y1)
	return e1<<4 | e0, o1<<4 | o0
}

// accumulate8 applies the MAC update law to eight message bits.
func (s *state) accumulate8(m, k byte) {
	acc, reg := s.mac()
	for i := 0; i < 8; i++ {
		if m>>i&1 != 0 {
			acc ^= reg
		}
		reg = reg>>1 | uint64(k>>i&1)<<63
	}
	s.setMac(acc, reg)
}

// step8 draws the even/odd keystream pair covering eight
// message bits (sixteen clocks).
func (s *state) step8() (even, odd byte) {
	y0, ln, fn := s.clock8()
	s.update8(ln, fn)
	y1, ln, fn := s.clock8()
	s.update8(ln, fn)
	return split8(y0, y1)
}

// auth8 authenticates p one byte at a time without encrypting
// it; the even keystream bits are discarded.
func (s *state) auth8(p []byte) {
	for _, c := range p {
		_, odd := s.step8()
		s.accumulate8(c, odd)
	}
}

// seal8 encrypts src into dst one byte at a time.
func (s *state) seal8(dst, src []byte) {
	for i, c := range src {
		even, odd := s.step8()
		dst[i] = c ^ even
		s.accumulate8(c, odd)
	}
}

// open8 decrypts src into dst one byte at a time, feeding the
// recovered plaintext into the MAC.
func (s *state) open8(dst, src []byte) {
	for i, c := range src {
		even, odd := s.step8()
		pt := c ^ even
		dst[i] = pt
		s.accumulate8(pt, odd)
	}
}

// authPad authenticates the final padding bit. The seven high
// bits of the padding byte are zero and leave the accumulator
// untouched.
func (s *state) authPad() {
	_, odd := s.step8()
	s.accumulate8(0x01, odd)
}

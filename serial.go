package grain

// This file clocks the cipher one bit at a time, exactly as the
// boolean functions are published. It is the semantic reference
// for the byte- and word-batched variants, which must produce
// bit-identical output.

// h1 is the nonlinear filter
//
//    h(x) = x0x1 + x2x3 + x4x5 + x6x7 + x0x4x8
//
// over the taps
//
//    (x0, ..., x8) = (b_12, s_8, s_13, s_20, b_95,
//                     s_42, s_60, s_79, s_94)
func h1(s *state) byte {
	x0 := bit(&s.nfsr, 12)
	x1 := bit(&s.lfsr, 8)
	x2 := bit(&s.lfsr, 13)
	x3 := bit(&s.lfsr, 20)
	x4 := bit(&s.nfsr, 95)
	x5 := bit(&s.lfsr, 42)
	x6 := bit(&s.lfsr, 60)
	x7 := bit(&s.lfsr, 79)
	x8 := bit(&s.lfsr, 94)
	return x0&x1 ^ x2&x3 ^ x4&x5 ^ x6&x7 ^ x0&x4&x8
}

// ksb1 is the pre-output function, producing one keystream bit.
func ksb1(s *state) byte {
	y := h1(s) ^ bit(&s.lfsr, 93)
	y ^= bit(&s.nfsr, 2) ^ bit(&s.nfsr, 15) ^ bit(&s.nfsr, 36)
	y ^= bit(&s.nfsr, 45) ^ bit(&s.nfsr, 64) ^ bit(&s.nfsr, 73)
	y ^= bit(&s.nfsr, 89)
	return y
}

// l1 is the linear feedback L(S_t), the next LFSR bit.
func l1(s *state) byte {
	return bit(&s.lfsr, 0) ^ bit(&s.lfsr, 7) ^ bit(&s.lfsr, 38) ^
		bit(&s.lfsr, 70) ^ bit(&s.lfsr, 81) ^ bit(&s.lfsr, 96)
}

// f1 is the nonlinear feedback s_0 + F(B_t), the next NFSR bit.
func f1(s *state) byte {
	b0 := bit(&s.nfsr, 0)
	b3 := bit(&s.nfsr, 3)
	b11 := bit(&s.nfsr, 11)
	b13 := bit(&s.nfsr, 13)
	b17 := bit(&s.nfsr, 17)
	b18 := bit(&s.nfsr, 18)
	b22 := bit(&s.nfsr, 22)
	b24 := bit(&s.nfsr, 24)
	b25 := bit(&s.nfsr, 25)
	b26 := bit(&s.nfsr, 26)
	b27 := bit(&s.nfsr, 27)
	b40 := bit(&s.nfsr, 40)
	b48 := bit(&s.nfsr, 48)
	b56 := bit(&s.nfsr, 56)
	b59 := bit(&s.nfsr, 59)
	b61 := bit(&s.nfsr, 61)
	b65 := bit(&s.nfsr, 65)
	b67 := bit(&s.nfsr, 67)
	b68 := bit(&s.nfsr, 68)
	b70 := bit(&s.nfsr, 70)
	b78 := bit(&s.nfsr, 78)
	b82 := bit(&s.nfsr, 82)
	b84 := bit(&s.nfsr, 84)
	b88 := bit(&s.nfsr, 88)
	b91 := bit(&s.nfsr, 91)
	b92 := bit(&s.nfsr, 92)
	b93 := bit(&s.nfsr, 93)
	b95 := bit(&s.nfsr, 95)
	b96 := bit(&s.nfsr, 96)

	v := bit(&s.lfsr, 0) ^ b0 ^ b26 ^ b56 ^ b91 ^ b96
	v ^= b3 & b67
	v ^= b11 & b13
	v ^= b17 & b18
	v ^= b27 & b59
	v ^= b40 & b48
	v ^= b61 & b65
	v ^= b68 & b84
	v ^= b22 & b24 & b25
	v ^= b70 & b78 & b82
	v ^= b88 & b92 & b93 & b95
	return v
}

// clock1 computes the keystream bit and the next L and F bits
// for the current registers. The registers are not mutated; the
// caller applies the update explicitly.
func (s *state) clock1() (y, ln, fn byte) {
	return ksb1(s), l1(s), f1(s)
}

// update1 shifts both registers by one bit, appending ln to the
// LFSR and fn to the NFSR.
func (s *state) update1(ln, fn byte) {
	shift1(&s.lfsr, ln)
	shift1(&s.nfsr, fn)
}

// init1 is the bit-serial form of initialize: 512 single-bit
// clocks across the four feedback phases.
func (s *state) init1(key, nonce []byte) {
	s.load(key, nonce)

	// 320 clocks feeding the pre-output back into both
	// registers.
	for t := 0; t < 320; t++ {
		y, ln, fn := s.clock1()
		s.update1(ln^y, fn^y)
	}

	// 64 clocks additionally reintroducing the key bits.
	for t := uint(0); t < 64; t++ {
		ka := (key[(t+64)>>3] >> ((t + 64) & 7)) & 1
		kb := (key[t>>3] >> (t & 7)) & 1
		y, ln, fn := s.clock1()
		s.update1(ln^y^ka, fn^y^kb)
	}

	// 64 clocks moving the pre-output into the accumulator,
	// with plain feedback from here on.
	for t := uint(0); t < 64; t++ {
		y, ln, fn := s.clock1()
		s.acc[t>>3] |= y << (t & 7)
		s.update1(ln, fn)
	}

	// 64 clocks moving the pre-output into the shift register.
	for t := uint(0); t < 64; t++ {
		y, ln, fn := s.clock1()
		s.reg[t>>3] |= y << (t & 7)
		s.update1(ln, fn)
	}
}

// accumulate1 applies the MAC update law for one message bit m
// and one auth bit k:
//
//    A_i ← A_i + m·R_i
//    R_i ← (R_i >> 1) | k·2^63
func (s *state) accumulate1(m, k byte) {
	acc, reg := s.mac()
	if m&1 != 0 {
		acc ^= reg
	}
	reg = reg>>1 | uint64(k&1)<<63
	s.setMac(acc, reg)
}

// step1 draws the keystream pair for one message bit: the even
// bit masks text and the odd bit feeds the MAC.
func (s *state) step1() (even, odd byte) {
	y0, ln, fn := s.clock1()
	s.update1(ln, fn)
	y1, ln, fn := s.clock1()
	s.update1(ln, fn)
	return y0, y1
}

// auth1 authenticates p without encrypting it. The even
// keystream bits are drawn and discarded to keep clock parity
// with text processing.
func (s *state) auth1(p []byte) {
	for _, c := range p {
		for i := uint(0); i < 8; i++ {
			_, odd := s.step1()
			s.accumulate1(c>>i, odd)
		}
	}
}

// seal1 encrypts src into dst bit by bit, authenticating every
// plaintext bit.
func (s *state) seal1(dst, src []byte) {
	for j, c := range src {
		var ct byte
		for i := uint(0); i < 8; i++ {
			even, odd := s.step1()
			m := (c >> i) & 1
			ct |= (m ^ even&1) << i
			s.accumulate1(m, odd)
		}
		dst[j] = ct
	}
}

// open1 decrypts src into dst bit by bit, authenticating every
// recovered plaintext bit.
func (s *state) open1(dst, src []byte) {
	for j, c := range src {
		var pt byte
		for i := uint(0); i < 8; i++ {
			even, odd := s.step1()
			m := (c>>i ^ even) & 1
			pt |= m << i
			s.accumulate1(m, odd)
		}
		dst[j] = pt
	}
}

// pad1 authenticates the single 1 bit closing the MAC.
func (s *state) pad1() {
	_, odd := s.step1()
	s.accumulate1(1, odd)
}

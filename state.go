package grain

import "encoding/binary"

// state is the Grain-128AEAD cipher state.
//
// Grain-128AEAD has two primary parts:
//
//    1. pre-output generator
//    2. authenticator generator
//
// The pre-output generator has three parts:
//
//    1. an LFSR
//    2. a non-linear FSR (NFSR)
//    3. a pre-output function
//
// The authenticator generator has two parts:
//
//    1. a shift register
//    2. an accumulator
//
// The pre-output generator is defined as
//
//    y_t = h(x) + s_93^t + \sum_{j \in A} b_j^t
//
// where
//
//    A = {2, 15, 36, 45, 64, 73, 89}
//
// Register bits are indexed starting from the least significant
// bit of byte 0. Each clock drops the register's lowest bit(s)
// and appends the feedback bit(s) at the high end, so a register
// is always exactly 128 bits. A state is created fresh per
// encryption or decryption and discarded once the tag has been
// produced; it is never shared across calls.
type state struct {
	// lfsr is a 128-bit linear feedback shift register.
	//
	// The LFSR is defined as the following polynomial over GF(2)
	//
	//    f(x) = 1 + x^32 + x^47 + x^58 + x^90 + x^121 + x^128
	//
	// and updated with
	//
	//    s_127^(t+1) = s_0^t + s_7^t + s_38^t
	//                + s_70^t + s_81^t + s_96^t
	//                = L(S_t)
	lfsr [16]byte
	// nfsr is a 128-bit non-linear feedback shift register.
	//
	// nfsr is defined as the following polynomial over GF(2)
	//
	//    g(x) = 1 + x^32 + x^37 + x^72 + x^102 + x^128
	//         + x^44*x^60 + x^61*x^125 + x^63*x^67
	//         + x^69*x^101 + x^80*x^88 + x^110*x^111
	//         + x^115*x^117 + x^46*x^50*x^58
	//         + x^103*x^104*x^106 + x^33*x^35*x^36*x^40
	//
	// and updated with
	//
	//    b_127^(t+1) = s_0^t + b_0^t + b_26^t + b_56^t
	//                + b_91^t + b_96^t + b_3^t*b_67^t
	//                + b_11^t*b_13^t + b_17^t*b_18^t
	//                + b_27^t*b_59^t + b_40^t*b_48^t
	//                + b_61^t*b_65^t + b_68^t*b_84^t
	//                + b_22^t*b_24^t*b_25^t
	//                + b_70^t*b_78^t*b_82^t
	//                + b_88^t*b_92^t*b_93^t*b_95^t
	//                = s_0^t + F(B_t)
	nfsr [16]byte
	// acc is the accumulator half of the authentication
	// generator.
	//
	// Specifically, acc is the authentication tag.
	//
	//    A_i = [a_0^i, a_1^i, ..., a_63^i]
	acc [8]byte
	// reg is the shift register half of the authentication
	// generator, containing the most recent 64 odd bits from
	// the pre-output.
	//
	//    R_i = [r_0^i, r_1^i, ..., r_63^i]
	reg [8]byte
}

// load fills the registers with the raw key and nonce: the key
// into the NFSR, the nonce into the low 96 bits of the LFSR, and
// the constant 0x7FFFFFFF into the high 32 bits of the LFSR (one
// bit of the IV padding is intentionally clear).
func (s *state) load(key, nonce []byte) {
	copy(s.nfsr[:], key)
	copy(s.lfsr[:12], nonce)
	binary.LittleEndian.PutUint32(s.lfsr[12:16], 1<<31-1)
	s.acc = [8]byte{}
	s.reg = [8]byte{}
}

// bit returns bit i of r.
func bit(r *[16]byte, i uint) byte {
	return (r[i>>3] >> (i & 7)) & 1
}

// bits8 returns the eight consecutive bits of r starting at bit
// i, right-aligned. The window may span two backing bytes.
func bits8(r *[16]byte, i uint) byte {
	e := i + 7
	hi := r[e>>3] << (7 - e&7)
	if i&7 == 0 {
		return hi
	}
	return hi | r[i>>3]>>(i&7)
}

// bits32 returns the 32 consecutive bits of w starting at bit i,
// right-aligned. The window may span two lanes.
func bits32(w *[4]uint32, i uint) uint32 {
	e := i + 31
	hi := w[e>>5] << (31 - e&31)
	if i&31 == 0 {
		return hi
	}
	return hi | w[i>>5]>>(i&31)
}

// words returns r as four little-endian 32-bit lanes. The result
// is independent of host byte order.
func words(r *[16]byte) [4]uint32 {
	return [4]uint32{
		binary.LittleEndian.Uint32(r[0:4]),
		binary.LittleEndian.Uint32(r[4:8]),
		binary.LittleEndian.Uint32(r[8:12]),
		binary.LittleEndian.Uint32(r[12:16]),
	}
}

// shift1 clocks a 128-bit register once, dropping bit 0 and
// inserting b as the new bit 127.
func shift1(r *[16]byte, b byte) {
	lo := binary.LittleEndian.Uint64(r[0:8])
	hi := binary.LittleEndian.Uint64(r[8:16])
	binary.LittleEndian.PutUint64(r[0:8], lo>>1|hi<<63)
	binary.LittleEndian.PutUint64(r[8:16], hi>>1|uint64(b&1)<<63)
}

// shift8 clocks a 128-bit register eight times, dropping bits
// [0,8) and inserting b as bits [120,128).
func shift8(r *[16]byte, b byte) {
	copy(r[:15], r[1:])
	r[15] = b
}

// shift32 clocks a 128-bit register 32 times, dropping bits
// [0,32) and inserting w as bits [96,128).
func shift32(r *[16]byte, w uint32) {
	copy(r[:12], r[4:])
	binary.LittleEndian.PutUint32(r[12:16], w)
}

// mac returns the accumulator and shift register as 64-bit
// values.
func (s *state) mac() (acc, reg uint64) {
	return binary.LittleEndian.Uint64(s.acc[:]),
		binary.LittleEndian.Uint64(s.reg[:])
}

func (s *state) setMac(acc, reg uint64) {
	binary.LittleEndian.PutUint64(s.acc[:], acc)
	binary.LittleEndian.PutUint64(s.reg[:], reg)
}

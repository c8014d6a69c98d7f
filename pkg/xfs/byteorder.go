package xfs

import "encoding/binary"

func beUint16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func beUint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func beUint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

// Extent bitfield widths, per xfs_extent.hpp.
const (
	extentStateBits  = 1
	extentOffsetBits = 54
	extentBlockBits  = 52
	extentCountBits  = 21

	extentStateMask  = uint64(1) << 63
	extentOffsetMask = (uint64(1) << extentOffsetBits) - 1
	extentCountMask  = (uint64(1) << extentCountBits) - 1
)

// unpackExtent decodes a 128-bit packed extent record, split across two
// big-endian 64-bit words, into its four logical fields. The bit layout
// straddles the l0/l1 word boundary at bit 43 of start_block, so the
// high 9 bits live in l0 and the low 43 bits live in l1 (see
// xfs_extent.cpp's unpack constructor, followed here verbatim).
func unpackExtent(p PackedExtent) (state uint8, fileOffset uint64, startBlock uint64, blockCount uint32) {
	l0, l1 := p.L0, p.L1

	if l0&extentStateMask != 0 {
		state = 1
	}
	// file_offset occupies bits 9..62 of l0 (54 bits); the low 9 bits
	// of l0 hold the high 9 bits of the 52-bit start_block instead.
	fileOffset = (l0 >> 9) & extentOffsetMask
	startBlockHigh := l0 & 0x1FF
	startBlockLow := l1 >> extentCountBits // bits 21..63 of l1, 43 bits
	startBlock = (startBlockHigh << 43) | startBlockLow

	blockCount = uint32(l1 & extentCountMask)
	return
}

// packExtent re-encodes an unpacked extent back into its two big-endian
// 64-bit words. Used for round-trip testing.
func packExtent(state uint8, fileOffset uint64, startBlock uint64, blockCount uint32) PackedExtent {
	var l0, l1 uint64
	if state != 0 {
		l0 |= extentStateMask
	}
	l0 |= (fileOffset & extentOffsetMask) << 9
	l0 |= (startBlock >> 43) & 0x1FF

	l1 |= (startBlock & ((uint64(1) << 43) - 1)) << extentCountBits
	l1 |= uint64(blockCount) & extentCountMask

	return PackedExtent{L0: l0, L1: l1}
}

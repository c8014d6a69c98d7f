package xfs

const (
	extentStateNormal    = 0
	extentStateUnwritten = 1
)

// Extent is a decoded, validated on-disk extent record: a contiguous run
// of filesystem blocks described by file offset, absolute start block,
// and length in blocks. As decoded from an inode, StartBlock is the
// filesystem block number (AG index in its high bits); the sub-extents
// produced by the free-space intersection carry the linear device block
// number instead (AG index * AG block count + AG-relative block), which is
// what RecoveredInode.ReadAt multiplies by the block size.
type Extent struct {
	FileOffset uint64 // logical offset, in filesystem blocks
	StartBlock uint64 // absolute start block, see above
	BlockCount uint32
	State      uint8
}

// decodeExtent unpacks a raw 128-bit packed extent record and validates
// it against the superblock: unwritten extents, zero-length extents, and
// extents whose absolute end exceeds the filesystem's data block count
// are all rejected, matching Extent::IsValid in xfs_extent.cpp.
func decodeExtent(sb *SuperBlock, p PackedExtent) (Extent, bool) {
	state, fileOffset, startBlock, blockCount := unpackExtent(p)

	e := Extent{
		FileOffset: fileOffset,
		StartBlock: startBlock,
		BlockCount: blockCount,
		State:      state,
	}

	if state != extentStateNormal {
		return e, false
	}
	if blockCount == 0 {
		return e, false
	}
	if linearBlockOffset(sb, startBlock)+uint64(blockCount) > sb.DataBlocks {
		return e, false
	}
	return e, true
}

// agRelativeBlock splits an on-disk filesystem block number into its AG
// index and AG-relative block number, per the filesystem block number
// encoding in §3/GLOSSARY: AG index occupies the high bits above
// ag_block_log2, AG-relative block number the low bits.
func agRelativeBlock(sb *SuperBlock, fsBlock uint64) (agIndex uint32, relative uint32) {
	shift := agBlockLog2(sb)
	agIndex = uint32(fsBlock >> shift)
	relative = uint32(fsBlock & ((uint64(1) << shift) - 1))
	return
}

// linearBlockOffset reinterprets a filesystem block number as AG index +
// AG-relative block (agRelativeBlock), then linearises it against each
// AG's actual block count rather than its reserved log2 address space,
// so the result is directly comparable to data_block_count.
func linearBlockOffset(sb *SuperBlock, fsBlock uint64) uint64 {
	agIndex, relative := agRelativeBlock(sb, fsBlock)
	return uint64(agIndex)*uint64(sb.AGBlocks) + uint64(relative)
}

// agBlockLog2 returns the bit shift separating AG index from AG-relative
// block number in a filesystem block number: the smallest n such that
// (1 << n) >= ag_block_count, per §3's invariant.
func agBlockLog2(sb *SuperBlock) uint {
	var n uint
	for (uint64(1) << n) < uint64(sb.AGBlocks) {
		n++
	}
	return n
}

package xfs

import "github.com/pkg/errors"

// btreeRecordFunc is invoked once per leaf record, in on-disk order.
// Some records are duplicated across sibling leaves on disk; the core
// tolerates this and expects callbacks to be idempotent, matching
// xfs_tree.hpp's own comment on the same behaviour.
type btreeRecordFunc func(agIndex uint32, recData []byte) error

// walkShortBTree recursively descends a short-format (4-byte pointer),
// CRC-enabled B+tree rooted at ptr (an AG-relative block number) and
// invokes fn for every leaf record. Grounded in xfs_tree.hpp's
// BTreeWalk/BTreeWalkPointers/BTreeWalkRecords template family; long
// format (8-byte pointers, whole-filesystem trees) is never exercised by
// this core and is not implemented.
func walkShortBTree(dev Device, sb *SuperBlock, agIndex uint32, ptr uint32, magic uint32, recSize int, fn btreeRecordFunc) error {
	seek := uint64(sb.BlockSize) * (uint64(sb.AGBlocks)*uint64(agIndex) + uint64(ptr))

	headerRaw, err := dev.ReadAt(seek, btreeShortHeaderCRCSize)
	if err != nil {
		return errors.Wrapf(err, "ag %d: read btree block at ptr %d", agIndex, ptr)
	}

	blockMagic := beUint32(headerRaw[0:4])
	if blockMagic != magic {
		return &ValidationError{Component: "btree_block", Reason: "magic mismatch"}
	}
	level := beUint16(headerRaw[4:6])

	if level > 0 {
		return walkShortBTreePointers(dev, sb, agIndex, seek, magic, recSize, fn)
	}
	return walkShortBTreeRecords(dev, sb, agIndex, seek, recSize, fn)
}

func walkShortBTreePointers(dev Device, sb *SuperBlock, agIndex uint32, seek uint64, magic uint32, recSize int, fn btreeRecordFunc) error {
	const ptrSize = 4
	capacity := (uint64(sb.BlockSize) - btreeShortHeaderCRCSize) / (2 * ptrSize)
	offset := (btreeShortHeaderCRCSize + uint64(sb.BlockSize)) / 2

	raw, err := dev.ReadAt(seek+offset, capacity*ptrSize)
	if err != nil {
		return errors.Wrapf(err, "ag %d: read btree pointers", agIndex)
	}

	for i := uint64(0); i < capacity; i++ {
		ptr := beUint32(raw[i*ptrSize : i*ptrSize+ptrSize])
		if err := walkShortBTree(dev, sb, agIndex, ptr, magic, recSize, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkShortBTreeRecords(dev Device, sb *SuperBlock, agIndex uint32, seek uint64, recSize int, fn btreeRecordFunc) error {
	capacity := (uint64(sb.BlockSize) - btreeShortHeaderCRCSize) / uint64(recSize)

	raw, err := dev.ReadAt(seek+btreeShortHeaderCRCSize, capacity*uint64(recSize))
	if err != nil {
		return errors.Wrapf(err, "ag %d: read btree records", agIndex)
	}

	for i := uint64(0); i < capacity; i++ {
		rec := raw[i*uint64(recSize) : i*uint64(recSize)+uint64(recSize)]
		if err := fn(agIndex, rec); err != nil {
			return err
		}
	}
	return nil
}

package xfs

import "github.com/pkg/errors"

// freeSpaceRecord describes both the keys and the records of the
// free-space B+tree, which share the same on-disk shape ({start_block,
// block_count}, both 32-bit big-endian) per xfs_trees.h's
// xfs_alloc_rec_t/xfs_alloc_key_t.
type freeSpaceRecord struct {
	StartBlock uint32
	BlockCount uint32
}

const freeSpaceRecordSize = 8 // 2 * uint32
const freeSpacePtrSize = 4    // uint32

// intersectFreeSpace walks the AG's by-block-number free-space B+tree
// rooted at agfRoot and returns the sub-extents of e that are still
// marked free, translated back into file-offset space. Grounded in
// xfs_parser.cpp's OnlyWithinAGF/TreeCheck, preserved faithfully
// including the interior binary search's right-bias tie-break (see
// DESIGN.md Open Question #2).
func intersectFreeSpace(dev Device, sb *SuperBlock, agIndex uint32, agfRoot uint32, agfLength uint32, e Extent) ([]Extent, error) {
	_, rbStart32 := agRelativeBlock(sb, e.StartBlock)
	rbStart := uint64(rbStart32)

	if rbStart > uint64(agfLength) {
		return nil, nil
	}

	extentBegin := rbStart
	extentEnd := rbStart + uint64(e.BlockCount)

	var result []Extent
	err := treeCheck(dev, sb, agIndex, agfRoot, e, rbStart, &extentBegin, &extentEnd, &result)
	return result, err
}

func treeCheck(dev Device, sb *SuperBlock, agIndex uint32, ptr uint32, e Extent, origBegin uint64, extentBegin, extentEnd *uint64, result *[]Extent) error {
	seek := agByteOffset(sb, agIndex) + uint64(ptr)*uint64(sb.BlockSize)

	headerRaw, err := dev.ReadAt(seek, btreeShortHeaderCRCSize)
	if err != nil {
		return errors.Wrapf(err, "ag %d: read free-space btree block", agIndex)
	}
	level := beUint16(headerRaw[4:6])
	numRecs := beUint16(headerRaw[6:8])
	if numRecs == 0 {
		return nil
	}

	if level > 0 {
		return treeCheckInterior(dev, sb, agIndex, seek, numRecs, e, origBegin, extentBegin, extentEnd, result)
	}
	return treeCheckLeaf(dev, sb, agIndex, seek, numRecs, e, origBegin, extentBegin, extentEnd, result)
}

func treeCheckInterior(dev Device, sb *SuperBlock, agIndex uint32, seek uint64, numRecs uint16, e Extent, origBegin uint64, extentBegin, extentEnd *uint64, result *[]Extent) error {
	maxNumRecs := (uint64(sb.BlockSize) - btreeShortHeaderCRCSize) / (freeSpaceRecordSize + freeSpacePtrSize)

	keysRaw, err := dev.ReadAt(seek+btreeShortHeaderCRCSize, uint64(numRecs)*freeSpaceRecordSize)
	if err != nil {
		return errors.Wrapf(err, "ag %d: read free-space btree keys", agIndex)
	}

	ptrsOffset := btreeShortHeaderCRCSize + maxNumRecs*freeSpaceRecordSize
	ptrsRaw, err := dev.ReadAt(seek+ptrsOffset, uint64(numRecs)*freeSpacePtrSize)
	if err != nil {
		return errors.Wrapf(err, "ag %d: read free-space btree pointers", agIndex)
	}

	left := int32(0)
	right := int32(numRecs) - 1

	for left <= right {
		middle := (left + right) / 2
		key := beUint32(keysRaw[middle*freeSpaceRecordSize : middle*freeSpaceRecordSize+4])

		if *extentBegin > uint64(key) {
			left = middle + 1
		} else if *extentEnd < uint64(key) {
			right = middle - 1
		} else {
			// the source always biases right on an exact/overlapping match.
			right = middle
			break
		}
	}

	// Defensive clamp: a pathological key ordering could walk the binary
	// search's bounds past the record array (never observed in valid
	// on-disk trees); avoid an out-of-range slice access rather than
	// change the descent's chosen path for any in-range case.
	if right < 0 {
		right = 0
	}
	if right >= int32(numRecs) {
		right = int32(numRecs) - 1
	}

	ptr := beUint32(ptrsRaw[right*freeSpacePtrSize : right*freeSpacePtrSize+4])
	return treeCheck(dev, sb, agIndex, ptr, e, origBegin, extentBegin, extentEnd, result)
}

func treeCheckLeaf(dev Device, sb *SuperBlock, agIndex uint32, seek uint64, numRecs uint16, e Extent, origBegin uint64, extentBegin, extentEnd *uint64, result *[]Extent) error {
	recsRaw, err := dev.ReadAt(seek+btreeShortHeaderCRCSize, uint64(numRecs)*freeSpaceRecordSize)
	if err != nil {
		return errors.Wrapf(err, "ag %d: read free-space btree records", agIndex)
	}

	leftIndex := int32(0)
	rightIndex := int32(numRecs) - 1

	for leftIndex <= rightIndex {
		middleIndex := (leftIndex + rightIndex) / 2
		if middleIndex < 0 || middleIndex >= int32(numRecs) {
			// The scan ran past this leaf's record array (an extent
			// spanning beyond this leaf is not chased into the sibling
			// leaf); stop with whatever sub-extents were already found.
			return nil
		}
		recBytes := recsRaw[middleIndex*freeSpaceRecordSize : middleIndex*freeSpaceRecordSize+freeSpaceRecordSize]
		recordBegin := uint64(beUint32(recBytes[0:4]))
		recordEnd := recordBegin + uint64(beUint32(recBytes[4:8]))

		switch {
		case *extentBegin > recordEnd:
			leftIndex = middleIndex + 1
		case *extentEnd < recordBegin:
			rightIndex = middleIndex - 1
		default:
			targetBegin := recordBegin
			if *extentBegin > targetBegin {
				targetBegin = *extentBegin
			}
			targetEnd := recordEnd
			if *extentEnd < targetEnd {
				targetEnd = *extentEnd
			}
			if targetBegin == targetEnd {
				return nil
			}

			*result = append(*result, Extent{
				FileOffset: e.FileOffset + (targetBegin - origBegin),
				StartBlock: uint64(agIndex)*uint64(sb.AGBlocks) + targetBegin,
				BlockCount: uint32(targetEnd - targetBegin),
				State:      extentStateNormal,
			})

			*extentBegin = targetEnd
			rightIndex++
			if *extentBegin == *extentEnd {
				return nil
			}
		}
	}
	return nil
}

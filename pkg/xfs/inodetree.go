package xfs

import (
	"github.com/pkg/errors"
	"github.com/vorteil/vorteil/pkg/elog"
)

const inodeBTreeRecordSize = 16 // startino(4) + holemask/count/freecount or freecount(4) + free(8)

// walkInodeTree walks the inode (or free-inode) B+tree of a single AG,
// recovering every free inode slot it can. Grounded in xfs_parser.cpp's
// DumpInodes (AG-level driver) and InodeBTreeCallback (per-record
// free-mask/hole-mask walk).
func walkInodeTree(dev Device, sb *SuperBlock, agIndex uint32, agf *AGF, agi *AGI, log elog.Logger, cb InodeCallback) (bool, error) {
	root := agi.Root
	magic := uint32(IABT3MagicNumber)
	if sb.UsesFinobt() {
		root = agi.FreeRoot
		magic = FIBT3MagicNumber
	}

	agfBlockNoRoot := agfRootByBlock(agf)
	sparse := sb.UsesSparseInodes()

	cont := true
	var walkErr error

	err := walkShortBTree(dev, sb, agIndex, root, magic, inodeBTreeRecordSize, func(agIdx uint32, rec []byte) error {
		if !cont {
			return nil
		}

		startIno := beUint32(rec[0:4])
		holeMask := beUint16(rec[4:6])
		freeMask := beUint64(rec[8:16])

		current := startIno

		for freeMask != 0 {
			if sparse && holeMask&1 != 0 {
				holeMask >>= 1
				freeMask >>= 4
				current += 4
				continue
			}

			if freeMask&1 != 0 {
				if log != nil {
					log.Debugf("[%d] attempting recovery", current)
				}

				inode, rerr := recoverInode(dev, sb, agIdx, agf, agfBlockNoRoot, current)
				if rerr != nil {
					if log != nil {
						log.Debugf("[%d] failed: %v", current, rerr)
					}
				} else {
					proceed, cerr := cb(inode)
					if cerr != nil {
						walkErr = cerr
						cont = false
						return cerr
					}
					if !proceed {
						cont = false
						return nil
					}
				}
			}

			freeMask >>= 1
			current++
			if (current-startIno)%4 == 0 {
				holeMask >>= 1
			}
		}
		return nil
	})

	if walkErr != nil {
		return false, walkErr
	}
	if err != nil {
		return false, errors.Wrapf(err, "ag %d: walk inode tree", agIndex)
	}
	return cont, nil
}

// recoverInode performs the per-inode recovery of §4.6 steps 1-6: read
// the inode core, validate it, read and unpack its trailing extent
// array, intersect each surviving extent with the AG's free-space
// B+tree, and require a zero-file-offset extent among the survivors.
func recoverInode(dev Device, sb *SuperBlock, agIndex uint32, agf *AGF, agfBlockNoRoot uint32, aginode uint32) (*RecoveredInode, error) {
	seekOffset := agByteOffset(sb, agIndex) + uint64(aginode)*uint64(sb.InodeSize)

	coreRaw, err := dev.ReadAt(seekOffset, inodeCoreSize)
	if err != nil {
		return nil, errors.Wrap(err, "read inode core")
	}
	core, err := decodeInodeCore(coreRaw)
	if err != nil {
		return nil, errors.Wrap(err, "decode inode core")
	}
	if verr := validateInodeCore(core); verr != nil {
		return nil, verr
	}

	numExtentSlots := (int(sb.InodeSize) - inodeCoreSize) / 16
	if numExtentSlots <= 0 {
		return nil, &NotRecoverableError{Reason: "no room for extents"}
	}

	packedRaw, err := dev.ReadAt(seekOffset+inodeCoreSize, uint64(numExtentSlots)*16)
	if err != nil {
		return nil, errors.Wrap(err, "read packed extents")
	}

	var extents []Extent
	has0Offset := false

	for i := 0; i < numExtentSlots; i++ {
		b := packedRaw[i*16 : i*16+16]
		p := PackedExtent{L0: beUint64(b[0:8]), L1: beUint64(b[8:16])}

		e, ok := decodeExtent(sb, p)
		if !ok {
			continue
		}

		sub, ferr := intersectFreeSpace(dev, sb, agIndex, agfBlockNoRoot, agf.Length, e)
		if ferr != nil {
			return nil, errors.Wrap(ferr, "intersect free space")
		}
		for _, s := range sub {
			extents = append(extents, s)
			if s.FileOffset == 0 {
				has0Offset = true
			}
		}
	}

	if !has0Offset {
		return nil, &NotRecoverableError{Reason: "no 0 start offset"}
	}

	return &RecoveredInode{
		ino:       core.Ino,
		mtime:     core.MTime,
		atime:     core.ATime,
		ctime:     core.CTime,
		crtime:    core.CrTime,
		blockSize: sb.BlockSize,
		extents:   extents,
	}, nil
}

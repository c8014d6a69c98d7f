package xfs

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ReadAGHeaders reads and validates the AGF (free-space header) and AGI
// (inode-management header) for AG agIndex, per xfs_parser.cpp's DumpInodes
// per-AG header reads.
func ReadAGHeaders(dev Device, sb *SuperBlock, agIndex uint32) (*AGF, *AGI, error) {
	base := agByteOffset(sb, agIndex)

	agfRaw, err := dev.ReadAt(base+uint64(sb.SectorSize), uint64(binary.Size(AGF{})))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "ag %d: read AGF", agIndex)
	}
	agf := new(AGF)
	if err := binary.Read(bytes.NewReader(agfRaw), binary.BigEndian, agf); err != nil {
		return nil, nil, errors.Wrapf(err, "ag %d: decode AGF", agIndex)
	}
	if agf.Magic != AGFMagicNumber {
		return nil, nil, &ValidationError{Component: "agf", Reason: "bad magic"}
	}

	agiRaw, err := dev.ReadAt(base+2*uint64(sb.SectorSize), uint64(binary.Size(AGI{})))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "ag %d: read AGI", agIndex)
	}
	agi := new(AGI)
	if err := binary.Read(bytes.NewReader(agiRaw), binary.BigEndian, agi); err != nil {
		return nil, nil, errors.Wrapf(err, "ag %d: decode AGI", agIndex)
	}
	if agi.Magic != AGIMagicNumber {
		return nil, nil, &ValidationError{Component: "agi", Reason: "bad magic"}
	}

	return agf, agi, nil
}

// agfRootByBlock returns the root of the free-space-by-block-number
// B+tree (agf_roots[XFS_BTNUM_BNOi], index 0).
func agfRootByBlock(agf *AGF) uint32 {
	return agf.Roots[0]
}

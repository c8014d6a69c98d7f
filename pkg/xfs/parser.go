package xfs

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/vorteil/vorteil/pkg/elog"
)

// InodeCallback receives each recovered inode as it is found. Returning
// cont == false stops the dump early: on the sequential path the
// remaining AGs, if any, are never visited; with Concurrency > 1 every AG
// has already been walked before cb is first called, so stopping only
// ends delivery. Returning a non-nil err aborts the dump and is
// propagated out of DumpInodes unwrapped.
type InodeCallback func(*RecoveredInode) (cont bool, err error)

// Parser is the entry point onto a single opened XFS device: a loaded,
// validated superblock plus the optional ambient collaborators (logging,
// progress, concurrency) described in the error-handling and concurrency
// design. The zero value is never valid; construct with NewParser.
type Parser struct {
	dev Device
	sb  *SuperBlock

	// Log receives NotRecoverableError traces at debug level. Nil is
	// always valid and silently swallows them.
	Log elog.Logger

	// Progress, if non-nil, receives one progress unit per AG visited.
	Progress elog.ProgressReporter

	// Concurrency bounds how many AGs are walked in parallel. <= 1
	// behaves sequentially; this is the default.
	Concurrency int
}

// NewParser loads and validates the superblock of dev, and returns a
// Parser ready for DumpInodes. Grounded in xfs_parser.cpp's constructor,
// which eagerly reads the superblock before anything else can run.
func NewParser(dev Device) (*Parser, error) {
	sb, err := ReadSuperBlock(dev)
	if err != nil {
		return nil, err
	}
	return &Parser{dev: dev, sb: sb}, nil
}

// SuperBlock returns the parser's loaded superblock.
func (p *Parser) SuperBlock() *SuperBlock {
	return p.sb
}

// DumpInodes walks every allocation group's inode (or free-inode)
// B+tree, attempting recovery of every free inode slot, and invokes cb
// for each one successfully recovered, in AG order (AG-relative order
// within an AG is the B+tree's on-disk leaf order). Grounded in
// xfs_parser.cpp's DumpInodes outer AG loop. A failure confined to one AG
// (its AGF/AGI headers or its inode B+tree) ends only that AG's walk: the
// remaining AGs are still walked and the first such error is returned at
// the end.
func (p *Parser) DumpInodes(cb InodeCallback) error {
	if p.Concurrency > 1 {
		return p.dumpInodesConcurrent(cb)
	}

	var agErr error
	for agIndex := uint32(0); agIndex < p.sb.AGCount; agIndex++ {
		var cbErr error
		cont, err := p.dumpAG(agIndex, func(ri *RecoveredInode) (bool, error) {
			c, e := cb(ri)
			cbErr = e
			return c, e
		})
		if cbErr != nil {
			return cbErr
		}
		if err != nil {
			if agErr == nil {
				agErr = err
			}
			continue
		}
		if !cont {
			break
		}
	}
	return agErr
}

func (p *Parser) dumpAG(agIndex uint32, cb InodeCallback) (bool, error) {
	progress := p.newAGProgress()
	defer func() {
		if progress != nil {
			progress.Finish(true)
		}
	}()

	agf, agi, err := ReadAGHeaders(p.dev, p.sb, agIndex)
	if err != nil {
		return false, errors.Wrapf(err, "ag %d", agIndex)
	}

	cont, err := walkInodeTree(p.dev, p.sb, agIndex, agf, agi, p.Log, cb)
	if progress != nil {
		progress.Increment(1)
	}
	return cont, err
}

func (p *Parser) newAGProgress() elog.Progress {
	if p.Progress == nil {
		return nil
	}
	return p.Progress.NewProgress("recovering inodes", "AGs", int64(p.sb.AGCount))
}

// dumpInodesConcurrent fans AGs out across a bounded worker pool (a
// buffered channel used as a semaphore) and collects each AG's recovered
// inodes into a per-AG slice. Once every AG has been walked, cb is
// invoked from this goroutine only, strictly in AG index order, although
// AGs may complete out of order relative to each other. An AG that fails
// is skipped and the first such error is returned at the end. Grounded in
// the teacher's bounded-worker-pool compilation-stage pattern (goroutines
// + sync.WaitGroup + buffered channel).
func (p *Parser) dumpInodesConcurrent(cb InodeCallback) error {
	type agResult struct {
		inodes []*RecoveredInode
		err    error
	}

	results := make([]agResult, p.sb.AGCount)
	sem := make(chan struct{}, p.Concurrency)
	var wg sync.WaitGroup

	for agIndex := uint32(0); agIndex < p.sb.AGCount; agIndex++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(agIndex uint32) {
			defer wg.Done()
			defer func() { <-sem }()

			var collected []*RecoveredInode
			_, err := p.dumpAG(agIndex, func(ri *RecoveredInode) (bool, error) {
				collected = append(collected, ri)
				return true, nil
			})
			results[agIndex] = agResult{inodes: collected, err: err}
		}(agIndex)
	}
	wg.Wait()

	var agErr error
	for _, r := range results {
		if r.err != nil {
			if agErr == nil {
				agErr = r.err
			}
			continue
		}
		for _, ri := range r.inodes {
			cont, err := cb(ri)
			if err != nil {
				return err
			}
			if !cont {
				return agErr
			}
		}
	}
	return agErr
}

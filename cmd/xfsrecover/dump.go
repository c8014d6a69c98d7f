package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vorteil/vorteil/pkg/xfs"
)

func runDump(cmd *cobra.Command, args []string) error {
	devPath := args[0]

	dev, err := xfs.Open(devPath)
	if err != nil {
		log.Errorf("%v", err)
		return err
	}
	defer dev.Close()

	parser, err := xfs.NewParser(dev)
	if err != nil {
		log.Errorf("%v", err)
		return err
	}
	parser.Log = log
	parser.Concurrency = flagConcurrency

	if log.IsInfoEnabled() {
		log.Infof("superblock features: %v", parser.SuperBlock().FeatureNames())
	}

	var found int
	err = parser.DumpInodes(func(ri *xfs.RecoveredInode) (bool, error) {
		found++
		mtime, atime, ctime := ri.MACTimes()
		fmt.Printf("inode %d\tsize %d\tmtime %d\tatime %d\tctime %d\tcrtime %d\n",
			ri.InodeNumber(), ri.Size(), mtime.Sec, atime.Sec, ctime.Sec, ri.CrTime().Sec)
		return true, nil
	})
	if err != nil {
		log.Errorf("%v", err)
		return err
	}

	log.Printf("recovered %d inode(s)", found)
	return nil
}

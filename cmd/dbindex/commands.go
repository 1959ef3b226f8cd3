package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/wanderingj/db/internal/logging"
	"github.com/wanderingj/db/internal/storage"
	"github.com/wanderingj/db/internal/storage/btree"
)

// defaultPoolSize is the buffer pool capacity used by the CLI.
const defaultPoolSize = 64

// indexFlags are the flags shared by every subcommand.
type indexFlags struct {
	file    string
	name    string
	useMmap bool
	logLvl  string
}

// register adds the shared flags to a flag set.
func (f *indexFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.file, "file", "index.db", "index file path")
	fs.StringVar(&f.name, "name", "default", "index name")
	fs.BoolVar(&f.useMmap, "mmap", false, "serve page reads through a memory mapping")
	fs.StringVar(&f.logLvl, "log-level", "info", "log level (debug, info, warn, error)")
}

// openIndex opens the disk manager, buffer pool and tree for a command.
// The returned cleanup flushes the pool and closes the file.
func openIndex(f indexFlags, createIfNew bool) (*btree.BPlusTree, *storage.BufferPool, *storage.DiskManager, func(), error) {
	opts := storage.DefaultOptions()
	opts.CreateIfNew = createIfNew
	opts.UseMmap = f.useMmap

	dm, err := storage.OpenDiskManager(f.file, opts)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	pool := storage.NewBufferPool(defaultPoolSize, dm)
	tree, err := btree.Open(f.name, pool, btree.CompareInt64Keys, btree.Options{})
	if err != nil {
		dm.Close()
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		pool.FlushAll()
		dm.Close()
	}
	return tree, pool, dm, cleanup, nil
}

// createCmd creates an index file.
func createCmd(args []string) int {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	var f indexFlags
	f.register(fs)
	fs.Parse(args)

	log := logging.New(logging.Config{Level: f.logLvl})

	_, _, _, cleanup, err := openIndex(f, true)
	if err != nil {
		log.Error("failed to create index", "file", f.file, "error", err)
		return 1
	}
	defer cleanup()

	log.Info("index ready", "file", f.file, "name", f.name)
	return 0
}

// loadCmd bulk-loads keys from a text file.
func loadCmd(args []string) int {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	var f indexFlags
	keys := fs.String("keys", "", "file with one integer key per line")
	f.register(fs)
	fs.Parse(args)

	log := logging.New(logging.Config{Level: f.logLvl})

	if *keys == "" {
		log.Error("load requires -keys")
		return 1
	}

	tree, _, _, cleanup, err := openIndex(f, true)
	if err != nil {
		log.Error("failed to open index", "file", f.file, "error", err)
		return 1
	}
	defer cleanup()

	if err := tree.InsertFromFile(*keys, nil); err != nil {
		log.Error("load failed", "keys", *keys, "error", err)
		return 1
	}

	log.Info("load complete", "file", f.file, "name", f.name, "keys", *keys)
	return 0
}

// removeCmd removes keys listed in a text file.
func removeCmd(args []string) int {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	var f indexFlags
	keys := fs.String("keys", "", "file with one integer key per line")
	f.register(fs)
	fs.Parse(args)

	log := logging.New(logging.Config{Level: f.logLvl})

	if *keys == "" {
		log.Error("remove requires -keys")
		return 1
	}

	tree, _, _, cleanup, err := openIndex(f, false)
	if err != nil {
		log.Error("failed to open index", "file", f.file, "error", err)
		return 1
	}
	defer cleanup()

	if err := tree.RemoveFromFile(*keys, nil); err != nil {
		log.Error("remove failed", "keys", *keys, "error", err)
		return 1
	}

	log.Info("remove complete", "file", f.file, "name", f.name, "keys", *keys)
	return 0
}

// getCmd looks up one key.
func getCmd(args []string) int {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	var f indexFlags
	key := fs.Int64("key", 0, "integer key to look up")
	f.register(fs)
	fs.Parse(args)

	log := logging.New(logging.Config{Level: f.logLvl})

	tree, _, _, cleanup, err := openIndex(f, false)
	if err != nil {
		log.Error("failed to open index", "file", f.file, "error", err)
		return 1
	}
	defer cleanup()

	rid, found, err := tree.GetValue(btree.Int64Key(*key), nil)
	if err != nil {
		log.Error("lookup failed", "key", *key, "error", err)
		return 1
	}
	if !found {
		fmt.Printf("%d: not found\n", *key)
		return 1
	}

	fmt.Printf("%d: page %d slot %d\n", *key, rid.PageID, rid.Slot)
	return 0
}

// scanCmd walks keys in order.
func scanCmd(args []string) int {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	var f indexFlags
	from := fs.String("from", "", "start key (inclusive; default is the first key)")
	limit := fs.Int("limit", 0, "stop after this many keys (0 = all)")
	f.register(fs)
	fs.Parse(args)

	log := logging.New(logging.Config{Level: f.logLvl})

	tree, _, _, cleanup, err := openIndex(f, false)
	if err != nil {
		log.Error("failed to open index", "file", f.file, "error", err)
		return 1
	}
	defer cleanup()

	var it *btree.Iterator
	if *from != "" {
		start, perr := strconv.ParseInt(*from, 10, 64)
		if perr != nil {
			log.Error("invalid start key", "from", *from, "error", perr)
			return 1
		}
		it, err = tree.BeginAt(btree.Int64Key(start), nil)
	} else {
		it, err = tree.Begin(nil)
	}
	if err != nil {
		log.Error("scan failed", "error", err)
		return 1
	}
	defer it.Close()

	count := 0
	for !it.IsEnd() {
		rid := it.RID()
		fmt.Printf("%d: page %d slot %d\n", btree.Int64FromKey(it.Key()), rid.PageID, rid.Slot)
		count++
		if *limit > 0 && count >= *limit {
			break
		}
		if err := it.Next(); err != nil {
			log.Error("scan failed", "error", err)
			return 1
		}
	}

	fmt.Fprintf(os.Stderr, "%d keys\n", count)
	return 0
}

// statsCmd prints file and pool statistics.
func statsCmd(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var f indexFlags
	f.register(fs)
	fs.Parse(args)

	log := logging.New(logging.Config{Level: f.logLvl})

	tree, pool, dm, cleanup, err := openIndex(f, false)
	if err != nil {
		log.Error("failed to open index", "file", f.file, "error", err)
		return 1
	}
	defer cleanup()

	stats := pool.Stats()
	fmt.Printf("file:        %s\n", dm.Path())
	fmt.Printf("pages:       %d (%d free)\n", dm.NumPages(), dm.FreePageCount())
	fmt.Printf("pool:        %d/%d frames, %d dirty, %d pinned\n",
		stats.Size, stats.Capacity, stats.DirtyPages, stats.PinnedPages)
	fmt.Printf("index %q empty: %v\n", tree.Name(), tree.IsEmpty())
	return 0
}

package trailcfg

import (
	"log"

	"github.com/mitchgrout/maw32trail/internal/memo"
)

// LoadMemos loads the three flat memo files named by cfg's threshold
// inside cfg.ScratchDir, then, when configured, the compressed archive
// and the bbolt cache on top of them (each overwriting any entry loaded
// before it), logging success or failure for each the way the original
// tool's loader did, but never treating a missing or truncated file as
// fatal: the resolver simply samples on the fly for whatever wasn't
// loaded.
func LoadMemos(cfg Config) *memo.Store {
	store := memo.New()

	keyPath, addPath, majPath := memo.FileNames(cfg.ScratchDir, cfg.Threshold)
	loadOne := "key-mix"
	if err := store.ReadKeyFile(keyPath); err == nil {
		log.Printf("loaded %s memos from %s", loadOne, keyPath)
	} else {
		log.Printf("failed to load %s memos from %s: %v", loadOne, keyPath, err)
	}

	if err := store.ReadAddFile(addPath); err == nil {
		log.Printf("loaded add memos from %s", addPath)
	} else {
		log.Printf("failed to load add memos from %s: %v", addPath, err)
	}

	if err := store.ReadMajFile(majPath); err == nil {
		log.Printf("loaded maj memos from %s", majPath)
	} else {
		log.Printf("failed to load maj memos from %s: %v", majPath, err)
	}

	if cfg.Archive != "" {
		if err := store.ReadCompressed(cfg.Archive); err != nil {
			log.Printf("failed to load compressed archive %s: %v", cfg.Archive, err)
		} else {
			log.Printf("loaded compressed archive from %s", cfg.Archive)
		}
	}

	if cfg.BoltCache != "" {
		cache, err := memo.OpenBoltCache(cfg.BoltCache)
		if err != nil {
			log.Printf("failed to open bolt cache %s: %v", cfg.BoltCache, err)
		} else {
			if err := cache.LoadInto(store); err != nil {
				log.Printf("failed to load bolt cache %s: %v", cfg.BoltCache, err)
			} else {
				log.Printf("loaded bolt cache from %s", cfg.BoltCache)
			}
			cache.Close()
		}
	}

	log.Printf("memo tables ready: %d key, %d add, %d maj entries",
		store.KeymixLen(), store.AddLen(), store.MajLen())
	return store
}

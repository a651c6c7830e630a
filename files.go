/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Seednode/codenames/games"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

func loadVocabulary(cfg *Config) (*games.Vocabulary, error) {
	startTime := time.Now()

	f, err := os.Open(cfg.vocabulary)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat vocabulary: %w", err)
	}

	vocab, err := games.ReadVocabulary(f)
	if err != nil {
		return nil, err
	}

	logf(cfg, "START: Loaded %d words from %s (%s) in %s",
		vocab.Len(),
		cfg.vocabulary,
		humanReadableSize(info.Size()),
		time.Since(startTime).Round(time.Microsecond),
	)

	return vocab, nil
}

// Command gendata writes a deterministic demo dataset into a data
// directory so the server has something to serve out of the box.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/clanhq/chestboard/internal/sampledata"
	"github.com/clanhq/chestboard/pkg/logger"
)

func main() {
	var (
		dir     = flag.String("dir", "data", "Output data directory")
		players = flag.Int("players", 0, "Number of players per week (0 = default)")
		weekCnt = flag.Int("weeks", 0, "Number of weekly snapshots (0 = default)")
		seed    = flag.Int64("seed", 0, "PRNG seed (0 = default)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx := context.Background()
	ds := sampledata.Generate(sampledata.Config{
		Players: *players,
		Weeks:   *weekCnt,
		Seed:    *seed,
	})
	if err := sampledata.WriteDir(ctx, *dir, ds, logger.Get()); err != nil {
		logger.Get().Error(ctx, "writing dataset failed", logger.Error(err))
		os.Exit(1)
	}
}

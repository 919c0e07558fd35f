// FILE: lixenwraith/recorder/cmd/recorder-tester/main.go
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/lixenwraith/recorder"
)

const (
	baseName       = "tester"
	maxMessageSize = 200
)

var levels = []recorder.Level{
	recorder.LevelDebug,
	recorder.LevelDetail,
	recorder.LevelNormal,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "recorder-tester",
		Usage: "drive a recorder with synthetic load",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "log directory", Value: "./logs"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "toml config file with a [recorder] table"},
			&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "minimum level: debug, detail, normal", Value: "debug"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "concurrent writers", Value: 4},
			&cli.DurationFlag{Name: "duration", Usage: "run time, zero runs until interrupted", Value: 10 * time.Second},
			&cli.DurationFlag{Name: "pause", Usage: "delay between writes per worker", Value: time.Millisecond},
		},
		Commands: []*cli.Command{
			{
				Name:   "normal",
				Usage:  "write random lines at random levels",
				Action: runNormal,
			},
			{
				Name:   "exception",
				Usage:  "record wrapped errors to the exception file",
				Action: runException,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "recorder-tester: %v\n", err)
		os.Exit(1)
	}
}

// openRecorder builds the recorder from --config and the root flags
func openRecorder(cmd *cli.Command) (*recorder.Recorder, error) {
	cfg := recorder.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := recorder.NewConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrides := []string{"level=" + cmd.String("level")}
	if cmd.IsSet("dir") || cmd.String("config") == "" {
		overrides = append(overrides, "directory="+cmd.String("dir"))
	}
	if err := cfg.ApplyOverride(overrides...); err != nil {
		return nil, err
	}

	return recorder.New(baseName, cfg)
}

func runNormal(ctx context.Context, cmd *cli.Command) error {
	return drive(ctx, cmd, func(rec *recorder.Recorder, worker, seq int, rng *rand.Rand) {
		level := levels[rng.Intn(len(levels))]
		msg := generateRandomMessage(rng, rng.Intn(maxMessageSize)+10)
		if err := rec.Log(level, fmt.Sprintf("wkr%02d", worker), fmt.Sprintf("seq=%d %s", seq, msg)); err != nil {
			fmt.Fprintf(os.Stderr, "\nwrite failed: %v\n", err)
		}
	})
}

func runException(ctx context.Context, cmd *cli.Command) error {
	return drive(ctx, cmd, func(rec *recorder.Recorder, worker, seq int, rng *rand.Rand) {
		_, err := os.Open(fmt.Sprintf("missing-%d-%d", worker, seq))
		rec.RecordError(errors.Wrapf(err, "worker %d step %d", worker, seq))
		_ = rec.Normal(fmt.Sprintf("wkr%02d", worker), "recorded exception")
	})
}

// drive runs step from every worker until the duration elapses or ctx is cancelled
func drive(ctx context.Context, cmd *cli.Command, step func(*recorder.Recorder, int, int, *rand.Rand)) error {
	rec, err := openRecorder(cmd)
	if err != nil {
		return err
	}

	if d := cmd.Duration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	workers := int(cmd.Int("workers"))
	if workers <= 0 {
		workers = 1
	}
	pause := cmd.Duration("pause")

	fmt.Printf("Writing to %s with %d workers. Press Ctrl+C to stop.\n", rec.ActivePath(), workers)

	var wg sync.WaitGroup
	var steps atomic.Int64
	start := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)))
			for seq := 0; ctx.Err() == nil; seq++ {
				step(rec, worker, seq, rng)
				steps.Add(1)
				if pause > 0 {
					select {
					case <-ctx.Done():
					case <-time.After(pause):
					}
				}
			}
		}(w)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
progress:
	for {
		select {
		case <-ctx.Done():
			break progress
		case <-ticker.C:
			s := rec.Stats()
			fmt.Printf("\rlines=%d rotations=%d deletions=%d exceptions=%d",
				s.Lines, s.Rotations, s.Deletions, s.Exceptions)
		}
	}
	wg.Wait()

	elapsed := time.Since(start)
	closeErr := rec.Close()
	s := rec.Stats()
	fmt.Printf("\n--- Test Finished ---\n")
	fmt.Printf("Steps: %d in %v (%.0f/s)\n", steps.Load(), elapsed.Round(time.Millisecond),
		float64(steps.Load())/elapsed.Seconds())
	fmt.Printf("Lines: %d  Rotations: %d  Deletions: %d  Dropped: %d  Exceptions: %d\n",
		s.Lines, s.Rotations, s.Deletions, s.Dropped, s.Exceptions)

	return closeErr
}

func generateRandomMessage(rng *rand.Rand, size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rng.Intn(len(chars))])
	}
	return sb.String()
}

package peerchain

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peerchain/peerchain/internal/config"
	"github.com/peerchain/peerchain/internal/ledger"
	"github.com/peerchain/peerchain/internal/pow"
)

var mineConfig config.MineConfig

var MineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine blocks into a throwaway local ledger",
	Long:  `Mine a number of blocks into a fresh in-memory ledger and report how long the proof searches took. Useful for benchmarking the proof-of-work difficulty on the local machine.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if parent := cmd.Parent(); parent != nil && parent.PreRunE != nil {
			if err := parent.PreRunE(parent, args); err != nil {
				return err
			}
		}

		mineConfig = config.LoadMineConfigFromCLI()
		if err := mineConfig.Validate(); err != nil {
			return fmt.Errorf("invalid mine configuration: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		led := ledger.New()

		bar := progressbar.NewOptions64(
			int64(mineConfig.Count),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetDescription("Mining blocks..."),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		if err := bar.RenderBlank(); err != nil {
			return fmt.Errorf("failed to render progress bar: %w", err)
		}

		start := time.Now()
		var attempts int
		for i := uint(0); i < mineConfig.Count; i++ {
			draft := led.Draft(0)
			solved, err := pow.Solve(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("mining interrupted: %w", err)
			}
			if err := led.Append(solved); err != nil {
				return fmt.Errorf("failed to commit block %d: %w", solved.Index, err)
			}
			attempts += solved.Proof + 1

			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
		elapsed := time.Since(start)

		if err := bar.Finish(); err != nil {
			return fmt.Errorf("failed to finish progress bar: %w", err)
		}

		fmt.Printf("Mined %d blocks in %s (difficulty %d, %d hashes, tip %s)\n",
			mineConfig.Count, elapsed.Round(time.Millisecond), pow.Difficulty, attempts,
			ledger.HashBlock(led.LastBlock()))
		return nil
	},
}

func init() {
	MineCmd.Flags().UintP("count", "n", 1, "Number of blocks to mine")

	if err := viper.BindPFlags(MineCmd.Flags()); err != nil {
		slog.Error("Failed to bind MineCmd flags", "error", err)
	}
}

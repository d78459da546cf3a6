package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/photonforge/lattice/pkg/circuit"
	"github.com/photonforge/lattice/pkg/engine"
)

func init() {
	runCmd.Flags().StringP("target", "t", "", "Target device to run on (defaults to the program header)")
	runCmd.Flags().IntP("shots", "n", 0, "Number of shots (defaults to the program header)")
	runCmd.Flags().StringP("output", "o", "", "File to write samples to (defaults to stdout)")
	runCmd.Flags().Duration("poll-interval", engine.DefaultPollInterval, "Delay between status polls")
}

var runCmd = &cobra.Command{
	Use:   "run <program.lcs>",
	Short: "Run a circuit program and wait for its samples",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		shots, _ := cmd.Flags().GetInt("shots")
		output, _ := cmd.Flags().GetString("output")
		pollInterval, _ := cmd.Flags().GetDuration("poll-interval")

		prog, err := circuit.Load(args[0])
		if err != nil {
			return err
		}

		if target == "" {
			target = prog.Target
		}
		if target == "" {
			return fmt.Errorf("no target: pass --target or add a target header to the program")
		}

		// Ctrl-C stops the poll loop; the job keeps running on the
		// platform and can be cancelled with "lattice jobs cancel".
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng := engine.New(conn, target)
		if pollInterval > 0 {
			eng.PollInterval = pollInterval
		}

		result, err := eng.Run(ctx, prog, shots)
		if err != nil {
			return err
		}

		return writeSamples(cmd, output, result.Samples())
	},
}

// writeSamples renders one shot per line, values separated by spaces.
func writeSamples(cmd *cobra.Command, path string, rows [][]int64) error {
	var b strings.Builder
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = strconv.FormatInt(v, 10)
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteByte('\n')
	}

	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), b.String())
		return nil
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("error writing samples: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d shots to %s\n", len(rows), path)
	return nil
}

// GetRunCmd returns the run command
func GetRunCmd() *cobra.Command {
	return runCmd
}

// Package cmd provides the command-line interface for fakekernel.
package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/fakekernel/datarecording"
	"github.com/sarchlab/fakekernel/fake"
)

// recordingEnv names the variable holding the default recording.
const recordingEnv = "FAKEKERNEL_RECORDING"

// newRootCmd builds the base command and its subcommands. Every call
// returns fresh commands, so flags and arguments never leak between runs.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fakekernel",
		Short: "fakekernel inspects syscall logs recorded by fake kernels.",
		Long: `fakekernel inspects the syscall logs that fake kernels record ` +
			`through a SyscallRecorder hook. The recording defaults to ` +
			`$` + recordingEnv + `, which may also be set in a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			err := godotenv.Load()
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			return nil
		},
	}

	rootCmd.AddCommand(newLogCmd(), newSummaryCmd())

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// recordingPath picks the database named on the command line or, failing
// that, the one in the environment.
func recordingPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	path := os.Getenv(recordingEnv)
	if path == "" {
		return "", errors.New("no recording given and " + recordingEnv +
			" is not set")
	}

	return path, nil
}

func openRecording(args []string) (datarecording.DataReader, error) {
	path, err := recordingPath(args)
	if err != nil {
		return nil, err
	}

	reader, err := datarecording.NewReader(path)
	if err != nil {
		return nil, err
	}

	reader.MapTable(fake.SyscallTableName, fake.SyscallRecord{})

	return reader, nil
}

func closeRecording(reader datarecording.DataReader) {
	if err := reader.Close(); err != nil {
		log.Printf("closing recording: %v", err)
	}
}

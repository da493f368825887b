package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/fakekernel/datarecording"
	"github.com/sarchlab/fakekernel/fake"
)

func newLogCmd() *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log [recording]",
		Short: "Print the recorded syscalls in order.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, _ := cmd.Flags().GetString("class")
			limit, _ := cmd.Flags().GetInt("limit")

			reader, err := openRecording(args)
			if err != nil {
				return err
			}
			defer closeRecording(reader)

			params := datarecording.QueryParams{
				OrderBy: "Seq",
				Limit:   limit,
			}
			if class != "" {
				params.Where = "Class = ?"
				params.Args = []any{class}
			}

			rows, total, err := reader.Query(cmd.Context(),
				fake.SyscallTableName, params)
			if err != nil {
				return err
			}

			printLog(cmd.OutOrStdout(), rows, total)

			return nil
		},
	}

	logCmd.Flags().String("class", "",
		`Only print syscalls of this class, e.g. "Command"`)
	logCmd.Flags().Int("limit", 0, "Print at most this many syscalls")

	return logCmd
}

func printLog(w io.Writer, rows []any, total int) {
	for _, row := range rows {
		fmt.Fprintln(w, formatRecord(row.(*fake.SyscallRecord)))
	}

	if len(rows) < total {
		fmt.Fprintf(w, "... %d more\n", total-len(rows))
	}
}

func formatRecord(r *fake.SyscallRecord) string {
	switch r.Class {
	case "Yield":
		return fmt.Sprintf("%6d  %-16s  which=%d", r.Seq, r.Class, r.Number)
	case "Subscribe":
		return fmt.Sprintf("%6d  %-16s  driver=%d subscribe=%d",
			r.Seq, r.Class, r.Driver, r.Number)
	case "Command":
		return fmt.Sprintf("%6d  %-16s  driver=%d command=%d args=%#x,%#x",
			r.Seq, r.Class, r.Driver, r.Number, r.Arg0, r.Arg1)
	case "Exit":
		return fmt.Sprintf("%6d  %-16s  which=%d code=%d",
			r.Seq, r.Class, r.Number, r.Arg0)
	default:
		return fmt.Sprintf("%6d  %-16s  driver=%d buffer=%d len=%d",
			r.Seq, r.Class, r.Driver, r.Number, uint64(r.Length))
	}
}

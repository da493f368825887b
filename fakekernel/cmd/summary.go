package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sarchlab/fakekernel/datarecording"
	"github.com/sarchlab/fakekernel/fake"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [recording]",
		Short: "Count the recorded syscalls per class.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := openRecording(args)
			if err != nil {
				return err
			}
			defer closeRecording(reader)

			rows, _, err := reader.Query(cmd.Context(),
				fake.SyscallTableName, datarecording.QueryParams{})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), countByClass(rows))

			return nil
		},
	}
}

type classCount struct {
	class string
	count int
}

// countByClass orders classes by count, most frequent first.
func countByClass(rows []any) []classCount {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.(*fake.SyscallRecord).Class]++
	}

	result := make([]classCount, 0, len(counts))
	for class, count := range counts {
		result = append(result, classCount{class: class, count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].count != result[j].count {
			return result[i].count > result[j].count
		}

		return result[i].class < result[j].class
	})

	return result
}

func printSummary(w io.Writer, counts []classCount) {
	total := 0

	for _, c := range counts {
		fmt.Fprintf(w, "%-16s  %d\n", c.class, c.count)
		total += c.count
	}

	fmt.Fprintf(w, "%-16s  %d\n", "Total", total)
}

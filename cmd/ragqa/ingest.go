package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fyerfyer/rag-pipeline/internal/services"
)

func newIngestCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Load, split, embed and store the given files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.pipeline.AddDocuments(cmd.Context(), args)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// printReport 输出入库统计和被跳过的文件
func printReport(w io.Writer, report *services.IngestReport) {
	fmt.Fprintf(w, "files: %d  segments: %d  chunks: %d\n", report.Files, report.Segments, report.Chunks)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "skipped %s: %v\n", f.Path, f.Err)
	}
}

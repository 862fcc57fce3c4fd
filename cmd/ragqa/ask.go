package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyerfyer/rag-pipeline/internal/services"
)

func newAskCmd(root *rootOptions) *cobra.Command {
	var showSources bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the ingested documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			question := strings.Join(args, " ")
			if !showSources {
				fmt.Fprintln(cmd.OutOrStdout(), a.pipeline.Answer(cmd.Context(), question))
				return nil
			}
			printAnswer(cmd.OutOrStdout(), a.pipeline.AnswerWithSources(cmd.Context(), question))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "also print the retrieved source chunks")
	return cmd
}

func printAnswer(w io.Writer, result *services.QAResult) {
	fmt.Fprintln(w, result.Answer)
	if len(result.Sources) == 0 {
		return
	}
	fmt.Fprintln(w, "\nsources:")
	for i, s := range result.Sources {
		fmt.Fprintf(w, "[%d] %s (score %.3f)\n", i+1, s.Source, s.Score)
	}
}

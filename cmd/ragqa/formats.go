package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyerfyer/rag-pipeline/internal/document"
)

func newFormatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported file extensions and the upload size limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 只读取配置，不要求API密钥
			cfg, _, err := root.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extensions: %s\n", strings.Join(document.SupportedExtensions(), ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "max file size: %d MB\n", cfg.MaxFileSizeMB)
			return nil
		},
	}
}

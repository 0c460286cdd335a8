package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "knnimpute",
		Short: "Fill missing table cells with k-nearest-neighbor estimates",
		Long: `knnimpute reads a CSV table from a local path, s3:// or minio:// location,
replaces every missing cell with the distance-weighted mean of its nearest
neighbors and writes the completed table back out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newImputeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the knnimpute version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("knnimpute %s\n", version)
		},
	}
}

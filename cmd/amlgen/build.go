package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/amlkit/provider"
	"github.com/joshuapare/amlkit/topology"
)

func init() {
	rootCmd.AddCommand(newBuildCmd())
}

func newBuildCmd() *cobra.Command {
	var (
		output      string
		oemID       string
		oemTableID  string
		oemRevision uint32
	)

	cmd := &cobra.Command{
		Use:   "build <topology.yaml>",
		Short: "Build a definition block from a YAML topology description",
		Long: `The build command loads a YAML topology description, generates the
processor hierarchy and low-power-state table, and writes the serialized
definition block.

Example:
  amlgen build topology.yaml -o cpu-topology.aml
  amlgen build topology.yaml -o out.aml --oem-id VENDOR --oem-revision 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], output, oemID, oemTableID, oemRevision)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "topology.aml", "Output file path")
	cmd.Flags().StringVar(&oemID, "oem-id", "AMLKIT", "OEM ID header field (up to 6 characters)")
	cmd.Flags().StringVar(&oemTableID, "oem-table-id", "CPU-TOPO", "OEM table ID header field (up to 8 characters)")
	cmd.Flags().Uint32Var(&oemRevision, "oem-revision", 1, "OEM revision header field")
	return cmd
}

func runBuild(inPath, outPath, oemID, oemTableID string, oemRevision uint32) error {
	logger.Debug("loading topology description", "path", inPath)

	src, err := provider.LoadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to load topology: %w", err)
	}
	logger.Debug("loaded records",
		"cores", len(src.Cores),
		"nodes", len(src.Nodes),
		"power-groups", len(src.Refs),
	)

	gen := topology.New(
		src,
		topology.WithOEMID(oemID),
		topology.WithOEMTableID(oemTableID),
		topology.WithOEMRevision(oemRevision),
	)
	buf, err := gen.Build()
	if err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	logger.Debug("built table", "bytes", len(buf))

	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	printInfo("Wrote %s (%d bytes)\n", outPath, len(buf))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/extract"
)

// ExtractFlags holds flags specific to the extract command.
type ExtractFlags struct {
	// Request is the original request, used for the multi-file hint.
	Request string
	// Out is the directory the artifact is written to.
	Out string
	// Force overwrites files in a non-empty --out without asking.
	Force bool
}

// extractResult is the JSON shape of an extraction.
type extractResult struct {
	extract.Result

	Artifact domain.ArtifactEnvelope `json:"artifact"`
	Written  []string                `json:"written,omitempty"`
}

// AddExtractCommand adds the extract command to the root command.
func AddExtractCommand(root *cobra.Command, a *app) {
	flags := &ExtractFlags{}

	cmd := &cobra.Command{
		Use:   "extract <response-file>",
		Short: "Classify a saved provider response as a document or a project",
		Long: `Classify a saved provider response and pull the artifact out of it.

The response is tried as a fenced project payload, then an unfenced payload,
then salvaged file by file; anything else is kept as a single document.

Examples:
  forge extract response.txt
  forge extract response.txt --request "a react app with several pages" --out ./app
  forge extract response.txt --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), cmd, a, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.Request, "request", "", "original request text")
	cmd.Flags().StringVar(&flags.Out, "out", "", "directory to write the extracted files to")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "overwrite files in a non-empty --out without asking")

	root.AddCommand(cmd)
}

// runExtract executes the extract command.
func runExtract(ctx context.Context, cmd *cobra.Command, a *app, flags *ExtractFlags, path string) error {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path) //nolint:gosec // user-selected response file
	if err != nil {
		return fmt.Errorf("failed to read response %s: %w", path, err)
	}

	if err := a.confirmOverwrite(flags.Out, flags.Force); err != nil {
		return err
	}

	res := extract.New(extract.WithLogger(*logger)).Extract(string(data), flags.Request)

	written, err := deliverArtifact(flags.Out, res.Artifact)
	if err != nil {
		return err
	}

	out := a.output(cmd)
	if a.jsonOutput() {
		return out.JSON(extractResult{Result: res, Artifact: domain.Envelope(res.Artifact), Written: written})
	}

	out.Info(fmt.Sprintf("Method: %s (confidence %s)", res.Method, strconv.FormatFloat(res.Confidence, 'f', 2, 64)))
	for _, w := range res.Warnings {
		out.Warning(w)
	}
	printArtifact(cmd.OutOrStdout(), out, res.Artifact, written, flags.Out)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depbank/pkg/cargo"
)

type listOpts struct {
	path     string
	detailed bool
}

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	opts := listOpts{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dependencies declared in a Rust project",
		Long: `List scans the project for Cargo.toml files and prints the aggregated
set of declared dependencies. With --detailed, each manifest's
declarations are shown with their version constraints, tables, features,
and sources.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runList(c.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", ".", "path to the project root directory")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show per-manifest declarations with constraints and sources")

	return cmd
}

func runList(ctx context.Context, opts listOpts) error {
	manifests, collection, err := scanProject(ctx, opts.path)
	if err != nil {
		return err
	}

	printInfo("Found %d %s files", len(manifests), cargo.ManifestName)
	for _, m := range manifests {
		printFile(m.Path)
	}

	if collection.Len() == 0 {
		printNewline()
		printDetail("No dependencies declared")
		return nil
	}

	if opts.detailed {
		printDetailedList(collection)
		return nil
	}

	printNewline()
	printInfo("%d unique dependencies", collection.Len())
	for _, name := range collection.Names() {
		literal, _ := collection.VersionLiteral(name)
		fmt.Println("  " + StyleValue.Render(name) + " " + StyleDim.Render(literal))
	}
	return nil
}

// printDetailedList shows every declaration grouped by manifest, in
// declaration order.
func printDetailedList(collection *cargo.Collection) {
	for _, path := range collection.Files() {
		printNewline()
		fmt.Println(StyleTitle.Render(path))
		for _, spec := range collection.SpecsFor(path) {
			fmt.Println("  " + StyleValue.Render(spec.Name) + " " +
				StyleNumber.Render(spec.VersionLiteral()) + " " +
				StyleDim.Render(describeSpec(spec)))
		}
	}
}

// describeSpec summarizes the non-version attributes of a declaration.
func describeSpec(spec cargo.Spec) string {
	parts := []string{string(spec.Table)}

	switch spec.Source {
	case cargo.SourceGit:
		ref := spec.Git
		if spec.GitRef != "" {
			ref += "@" + spec.GitRef
		}
		parts = append(parts, "git "+ref)
	case cargo.SourcePath:
		parts = append(parts, "path "+spec.Path)
	}

	if spec.Optional {
		parts = append(parts, "optional")
	}
	if len(spec.Features) > 0 {
		parts = append(parts, "features: "+strings.Join(spec.Features, ","))
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

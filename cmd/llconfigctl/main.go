// Package main implements llconfigctl, a small CLI that loads a
// Landlock Config document and reports the kernel ruleset it would
// build -- a dry-run inspection tool, not a sandboxer. It never calls
// prctl(PR_SET_NO_NEW_PRIVS) or landlock_restrict_self; entering the
// sandbox is left to the caller, per the library's scope.
package main

import (
	"fmt"
	"os"

	"github.com/landlock-lsm/landlockconfig/internal/llexamples"
	"github.com/landlock-lsm/landlockconfig/llconfig"
	"github.com/landlock-lsm/landlockconfig/llruleset"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	templateName  string
	listTemplates bool
	jsonSurface   bool
	debug         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "llconfigctl [flags]",
		Short: "Parse a Landlock Config document and report the ruleset it would build",
		Long: `llconfigctl loads a Landlock Config document -- JSON or TOML, a single
file or (for TOML) a directory of files to compose -- validates it, and
reports the kernel ruleset the builder would construct on this machine.

It is a dry-run inspection tool: it never restricts the llconfigctl
process itself.

Examples:
  llconfigctl --file policy.toml
  llconfigctl --file policy.json --json
  llconfigctl --file policies/          # directory composition
  llconfigctl --template workspace-write
  llconfigctl --list-templates`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&configPath, "file", "f", "", "Path to a Landlock Config file or (TOML) directory")
	rootCmd.Flags().StringVarP(&templateName, "template", "t", "", "Use a built-in example document")
	rootCmd.Flags().BoolVar(&listTemplates, "list-templates", false, "List built-in example documents")
	rootCmd.Flags().BoolVar(&jsonSurface, "json", false, "Parse --file as JSON instead of TOML")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Print the parsed policy's rule counts before building")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if listTemplates {
		printTemplates()
		return nil
	}

	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	if debug {
		fmt.Fprintf(os.Stderr, "[llconfigctl] declared ABI: %d, ruleset entries: %d, pathBeneath: %d, netPort: %d\n",
			policy.ABI, len(policy.Ruleset), len(policy.PathBeneath), len(policy.NetPort))
	}

	rs, err := llruleset.Build(policy)
	if err != nil {
		return fmt.Errorf("building ruleset: %w", err)
	}
	defer rs.Close()

	printReport(rs)
	return nil
}

func loadPolicy() (*llconfig.Policy, error) {
	switch {
	case templateName != "":
		p, err := llexamples.Load(templateName)
		if err != nil {
			return nil, fmt.Errorf("%w\nUse --list-templates to see available templates", err)
		}
		return p, nil
	case configPath != "":
		return loadFromPath(configPath)
	default:
		return nil, fmt.Errorf("no input specified: use --file or --template")
	}
}

func loadFromPath(path string) (*llconfig.Policy, error) {
	if jsonSurface {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return llconfig.ParseJSON(f)
	}
	return llconfig.ParseTOMLPath(path)
}

func printTemplates() {
	fmt.Println("Available example documents:")
	for _, e := range llexamples.List() {
		fmt.Printf("  %-20s %s\n", e.Name, e.Description)
	}
}

func printReport(rs *llruleset.Ruleset) {
	fmt.Printf("kernel Landlock ABI: %d\n", rs.KernelABI())
	if rs.FD() < 0 {
		fmt.Println("result: no-op ruleset (nothing survived downgrade)")
		return
	}
	fmt.Printf("handled accessFs:  %s\n", rs.HandledFS())
	fmt.Printf("handled accessNet: %s\n", rs.HandledNet())
	fmt.Printf("handled scope:     %s\n", rs.HandledScope())
}

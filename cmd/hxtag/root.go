package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pthm/hxtag"
	"github.com/pthm/hxtag/lib/config"
	"github.com/pthm/hxtag/lib/manifest"
)

const version = "0.1.0"

// cli holds state shared by every subcommand.
type cli struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "hxtag",
		Short:         "Inspect and package tag helper element name overrides",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !c.verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.checkCmd(),
		c.manifestCmd(),
		c.inspectCmd(),
		c.conventionCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "hxtag version %s\n", version)
			},
		},
	)
	return root
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <config.yaml>",
		Short: "Validate an element name overrides file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			c.logger.Debug("loaded config", zap.String("path", cfg.Path()), zap.Int("components", len(cfg.Names())))
			printEntries(cmd.OutOrStdout(), cfg.Entries())
			return nil
		},
	}
}

func (c *cli) manifestCmd() *cobra.Command {
	var output, key string

	cmd := &cobra.Command{
		Use:   "manifest <config.yaml>",
		Short: "Write a manifest for an element name overrides file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			enc := manifest.NewEncoder([]byte(key))
			data, err := enc.Encode(cfg.Entries())
			if err != nil {
				return fmt.Errorf("encode manifest: %w", err)
			}
			c.logger.Debug("encoded manifest", zap.Bool("signed", enc.Signed()), zap.Int("bytes", len(data)))

			if output == "" || output == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
				return err
			}
			return os.WriteFile(output, []byte(data+"\n"), 0644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&key, "key", os.Getenv("HXTAG_MANIFEST_KEY"), "signing key (env HXTAG_MANIFEST_KEY)")
	return cmd
}

func (c *cli) inspectCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "inspect <manifest>",
		Short: "Verify, decode and print a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			entries, err := manifest.NewEncoder([]byte(key)).Decode(string(data))
			if err != nil {
				return err
			}
			for _, e := range entries {
				if _, err := hxtag.ElementNameFromList(e.Tags); err != nil {
					return fmt.Errorf("entry %q: %w", e.Name, err)
				}
			}
			c.logger.Debug("decoded manifest", zap.Int("entries", len(entries)))
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", os.Getenv("HXTAG_MANIFEST_KEY"), "verification key (env HXTAG_MANIFEST_KEY)")
	return cmd
}

func (c *cli) conventionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convention <TypeName>...",
		Short: "Print the conventional element name for tag helper types",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, hxtag.ConventionName(name))
			}
		},
	}
}

// printEntries writes one line per entry; callers validate entries first,
// so every tag is non-nil.
func printEntries(w io.Writer, entries []manifest.Entry) {
	for _, e := range entries {
		tags := make([]string, len(e.Tags))
		for i, t := range e.Tags {
			tags[i] = *t
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, strings.Join(tags, ","), e.Source)
	}
}

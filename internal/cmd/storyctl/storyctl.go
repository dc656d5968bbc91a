// Package storyctl implements the story builder maintenance commands.
package storyctl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	storybuildercmd "github.com/louisbranch/storybuilder/internal/cmd/storybuilder"
	entrypoint "github.com/louisbranch/storybuilder/internal/platform/cmd"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/icons"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage/sqlite"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storytemplates"
)

// Config holds storyctl configuration. Values come from the same
// environment as the server.
type Config struct {
	DBPath string `env:"STORYBUILDER_DB_PATH" envDefault:"data/story_builder.db"`
	Image  storybuildercmd.ImageConfig
}

// LoadConfig reads .env and environment defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewRootCommand builds the storyctl command tree around cfg. Flags
// override cfg in place.
func NewRootCommand(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           entrypoint.ServiceStoryctl,
		Short:         "Maintain a story builder database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Story builder SQLite database path")

	root.AddCommand(
		newCardsCommand(cfg),
		newClearIconCommand(cfg),
		newLoadTemplateCommand(cfg),
		newProbeCommand(cfg),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, cfg Config, args []string) error {
	root := NewRootCommand(&cfg)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newCardsCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List Try/Fail cards with their icon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cfg, func(store *sqlite.Store) error {
				cards, err := store.ListCycleCards(cmd.Context(), storage.DefaultStoryID)
				if err != nil {
					return err
				}
				if len(cards) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "No Try/Fail cards.")
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(tw, "ID\tORDER\tTYPE\tICON\tATTEMPT")
				for _, card := range cards {
					_, _ = fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
						card.ID, card.OrderNum, card.Type, icons.Resolve(card.ConsequenceIcon), card.Attempt)
				}
				return tw.Flush()
			})
		},
	}
}

func newClearIconCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-icon <card-id>",
		Short: "Clear the consequence icon of a Try/Fail card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid card id %q", args[0])
			}
			return withStore(cfg, func(store *sqlite.Store) error {
				ref := storage.IconRef{Kind: storage.KindCycle, CardID: id, Slot: storage.SlotConsequence}
				err := store.PutIcon(cmd.Context(), ref, storage.Icon{Status: storage.IconAbsent})
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("try card %d not found", id)
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cleared consequence icon for try card %d.\n", id)
				return err
			})
		},
	}
}

func newLoadTemplateCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "load-template <name>",
		Short: "Replace the story with a built-in template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := storytemplates.Builtin()
			if err != nil {
				return err
			}
			tmpl, err := catalog.Get(args[0])
			if err != nil {
				return err
			}
			return withStore(cfg, func(store *sqlite.Store) error {
				if err := store.ReplaceStory(cmd.Context(), storage.DefaultStoryID, tmpl.Content()); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Loaded template %s: %d MICE cards, %d Try/Fail cards.\n",
					tmpl.Name, len(tmpl.Structural), len(tmpl.Cycle))
				return err
			})
		},
	}
}

func newProbeCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Generate one test image with the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			genCfg := cfg.Image.Generator()
			gen, err := imagegen.New(genCfg, nil)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			result := imagegen.Probe(cmd.Context(), genCfg.Backend, gen)
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), result.Message); err != nil {
				return err
			}
			if !result.Success {
				return errors.New("probe failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.Image.Backend, "backend", cfg.Image.Backend, "Image backend (gradio, inference, openai, none)")
	return cmd
}

func withStore(cfg *Config, fn func(*sqlite.Store) error) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}

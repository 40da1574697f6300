package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"visual-mapper/internal/vocabulary"
)

func newVocabCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage the SQL vocabulary store",
		Long: `Manage the SQL vocabulary store named by vocabulary.driver in the config
(sqlite3 or postgres).`,
	}
	cmd.AddCommand(newVocabMigrateCmd(a), newVocabSeedCmd(a), newVocabExportCmd(a))
	return cmd
}

func newVocabMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the vocabulary tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := vocabulary.OpenStore(a.cfg.Vocabulary)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vocabulary store migrated (%s)\n", a.cfg.Vocabulary.Driver)
			return nil
		},
	}
}

func newVocabSeedCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored vocabulary with the builtin one or a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := vocabulary.Builtin()
			if from != "" {
				var err error
				if snap, err = vocabulary.LoadFile(from); err != nil {
					return err
				}
			}

			store, closeFn, err := vocabulary.OpenStore(a.cfg.Vocabulary)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := store.Seed(cmd.Context(), snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded vocabulary %s (%d components)\n", snap.Version, len(snap.Components))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "YAML vocabulary merged over the builtin one (default: builtin only)")
	return cmd
}

func newVocabExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the vocabulary of the configured source as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := vocabulary.LoadStrict(cmd.Context(), a.cfg.Vocabulary)
			if err != nil {
				return err
			}
			data, err := vocabulary.Encode(snap)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	return cmd
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"visual-mapper/internal/bootstrap"
	"visual-mapper/internal/catalog"
	"visual-mapper/internal/mapping/pipeline"
	"visual-mapper/pkg/registry"
)

const (
	defaultRegistryPath = "configs/component-registry.json"
	registryVersion     = "1.0.0"
)

func newRegistryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Export or validate the JSON component registry",
	}
	cmd.AddCommand(newRegistryExportCmd(a), newRegistryValidateCmd(a))
	return cmd
}

func newRegistryExportCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog and its vocabulary to a registry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			mapper, err := bootstrap.NewMapper(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			reg := buildRegistry(mapper, bootstrap.LoadSchemas(a.cfg, a.log).Names(), time.Now())
			if problems := reg.Validate(); len(problems) > 0 {
				return fmt.Errorf("refusing to export invalid registry:\n  %s", strings.Join(problems, "\n  "))
			}
			if err := registry.SaveRegistry(reg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d components to %s\n", len(reg.Components), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", defaultRegistryPath, "registry file")
	return cmd
}

func newRegistryValidateCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a registry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			problems := reg.Validate()
			for _, c := range reg.Components {
				if !catalog.Known(catalog.ComponentType(c.Name)) {
					problems = append(problems, fmt.Sprintf("component %s is not in the catalog", c.Name))
				}
			}
			if len(problems) > 0 {
				return fmt.Errorf("registry validation failed:\n  %s", strings.Join(problems, "\n  "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d components.\n", len(reg.Components))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", defaultRegistryPath, "registry file")
	return cmd
}

// buildRegistry joins the active vocabulary with the static listing and the
// loaded schema names.
func buildRegistry(m *pipeline.Mapper, schemaNames []string, now time.Time) *registry.ComponentRegistry {
	examples := make(map[catalog.ComponentType]catalog.Entry)
	for _, e := range catalog.Listing() {
		examples[e.Name] = e
	}
	hasSchema := make(map[string]bool, len(schemaNames))
	for _, n := range schemaNames {
		hasSchema[n] = true
	}

	snap := m.Vocabulary()
	reg := &registry.ComponentRegistry{
		Version:           registryVersion,
		LastUpdated:       now.UTC().Format(time.RFC3339),
		VocabularyVersion: snap.Version,
		Templates:         m.Templates(),
	}
	for _, c := range snap.Components {
		entry := registry.Component{
			Name:        string(c.Name),
			Category:    c.Category,
			Section:     string(catalog.SectionFor(c.Name)),
			Description: c.Description,
			Terms:       append([]string(nil), c.Terms...),
			HasSchema:   hasSchema[string(c.Name)],
		}
		if e, ok := examples[c.Name]; ok {
			entry.ExampleProps = e.ExampleProps
			if entry.Category == "" {
				entry.Category = e.Category
			}
		}
		reg.Components = append(reg.Components, entry)
	}
	return reg
}

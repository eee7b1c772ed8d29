// Package schema describes the command tree, flags and flag constraints as
// JSON so agents can build valid invocations without parsing help text.
package schema

import (
	"fmt"
	"sort"
	"strings"

	clierr "github.com/ggonzalez94/flashmint-cli/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag annotations cobra sets for flag groups. cobra keeps the keys private.
const (
	annotationMutuallyExclusive = "cobra_annotation_mutually_exclusive"
	annotationOneRequired       = "cobra_annotation_one_required"
	annotationRequiredTogether  = "cobra_annotation_required_if_others_set"
)

var groupKinds = []struct {
	annotation string
	kind       string
}{
	{annotationMutuallyExclusive, "mutually_exclusive"},
	{annotationOneRequired, "one_required"},
	{annotationRequiredTogether, "required_together"},
}

type CommandSchema struct {
	Path        string          `json:"path"`
	Use         string          `json:"use"`
	Short       string          `json:"short"`
	Aliases     []string        `json:"aliases,omitempty"`
	Flags       []FlagSchema    `json:"flags,omitempty"`
	FlagGroups  []FlagGroup     `json:"flag_groups,omitempty"`
	Subcommands []CommandSchema `json:"subcommands,omitempty"`
}

type FlagSchema struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
	Required  bool   `json:"required,omitempty"`
}

// FlagGroup is a constraint over several flags of one command.
type FlagGroup struct {
	Kind  string   `json:"kind"`
	Flags []string `json:"flags"`
}

// Build describes the command at commandPath below root, or root itself when
// the path is empty. Aliases match like command names.
func Build(root *cobra.Command, commandPath string) (CommandSchema, error) {
	cmd := root
	for _, part := range strings.Fields(commandPath) {
		next := findChild(cmd, part)
		if next == nil {
			return CommandSchema{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("command not found: %s", strings.TrimSpace(commandPath)))
		}
		cmd = next
	}
	return serialize(cmd), nil
}

func findChild(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return c
		}
	}
	return nil
}

func serialize(cmd *cobra.Command) CommandSchema {
	flags, groups := collectFlags(cmd)
	s := CommandSchema{
		Path:       strings.TrimSpace(cmd.CommandPath()),
		Use:        cmd.Use,
		Short:      cmd.Short,
		Aliases:    cmd.Aliases,
		Flags:      flags,
		FlagGroups: groups,
	}
	for _, sub := range cmd.Commands() {
		if sub.Hidden {
			continue
		}
		s.Subcommands = append(s.Subcommands, serialize(sub))
	}
	return s
}

func collectFlags(cmd *cobra.Command) ([]FlagSchema, []FlagGroup) {
	items := []FlagSchema{}
	seen := map[string]bool{}
	var groups []FlagGroup
	cmd.NonInheritedFlags().VisitAll(func(f *pflag.Flag) {
		items = append(items, FlagSchema{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Usage:     f.Usage,
			Default:   f.DefValue,
			Required:  isRequired(f),
		})
		for _, gk := range groupKinds {
			for _, group := range f.Annotations[gk.annotation] {
				key := gk.kind + ":" + group
				if seen[key] {
					continue
				}
				seen[key] = true
				groups = append(groups, FlagGroup{Kind: gk.kind, Flags: strings.Fields(group)})
			}
		}
	})
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Kind != groups[j].Kind {
			return groups[i].Kind < groups[j].Kind
		}
		return strings.Join(groups[i].Flags, " ") < strings.Join(groups[j].Flags, " ")
	})
	return items, groups
}

func isRequired(f *pflag.Flag) bool {
	values := f.Annotations[cobra.BashCompOneRequiredFlag]
	return len(values) > 0 && values[0] == "true"
}

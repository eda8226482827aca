package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conn-castle/depgate/internal/catalog"
	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
	"github.com/conn-castle/depgate/internal/registry"
)

const (
	flagVersion     = "version"
	flagDisplayName = "display-name"
	flagDryRun      = "dry-run"
	flagForce       = "force"
)

func newRegistryCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.RegistryUse,
		Short: messages.RegistryShort,
	}
	cmd.AddCommand(
		newRegistryShowCmd(global),
		newRegistryRegisterCmd(global),
		newRegistryUnregisterCmd(global),
		newRegistryAddDependentCmd(global),
		newRegistryRemoveDependentCmd(global),
		newRegistryCommitCmd(global),
	)
	return cmd
}

func newRegistryShowCmd(global *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   messages.RegistryShowUse,
		Short: messages.RegistryShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, global)
			if err != nil {
				return err
			}
			hive := flagHive(global)
			doc, err := sess.store.Load(hive)
			if err != nil {
				return err
			}
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(doc)
			}
			path, _ := sess.store.Paths().For(hive)
			return printHive(cmd.OutOrStdout(), hive, path, doc)
		},
	}
	cmd.Flags().BoolVar(&asJSON, flagJSON, false, messages.FlagJSON)
	return cmd
}

func printHive(out io.Writer, hive gate.Hive, path string, doc registry.Document) error {
	if len(doc.Providers) == 0 {
		_, err := fmt.Fprintf(out, messages.RegistryEmptyHiveFmt, hive, path)
		return err
	}
	if _, err := fmt.Fprintf(out, messages.RegistryHiveHeaderFmt, hive, path); err != nil {
		return err
	}
	keyColor := color.New(color.Bold)
	for _, p := range doc.Providers {
		version := p.Version
		if version == "" {
			version = messages.RegistryUnversioned
		}
		if _, err := fmt.Fprintf(out, messages.RegistryProviderLineFmt, keyColor.Sprint(p.Key), version); err != nil {
			return err
		}
		if p.DisplayName != "" {
			if _, err := fmt.Fprintf(out, messages.RegistryProviderNameFmt, p.DisplayName); err != nil {
				return err
			}
		}
		for _, dep := range p.Dependents {
			var err error
			if dep.DisplayName != "" {
				_, err = fmt.Fprintf(out, messages.RegistryDependentNamedFmt, dep.Key, dep.DisplayName)
			} else {
				_, err = fmt.Fprintf(out, messages.RegistryDependentFmt, dep.Key)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func newRegistryRegisterCmd(global *globalOptions) *cobra.Command {
	var version, displayName string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   messages.RegistryRegisterUse,
		Short: messages.RegistryRegisterShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, global, dryRun, registry.RegisterProvider(args[0], version, displayName))
		},
	}
	cmd.Flags().StringVar(&version, flagVersion, "", messages.FlagVersion)
	cmd.Flags().StringVar(&displayName, flagDisplayName, "", messages.FlagDisplayName)
	cmd.Flags().BoolVar(&dryRun, flagDryRun, false, messages.FlagDryRun)
	return cmd
}

func newRegistryUnregisterCmd(global *globalOptions) *cobra.Command {
	var force, dryRun bool
	cmd := &cobra.Command{
		Use:   messages.RegistryUnregisterUse,
		Short: messages.RegistryUnregisterShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, global, dryRun, registry.UnregisterProvider(args[0], force))
		},
	}
	cmd.Flags().BoolVar(&force, flagForce, false, messages.FlagForce)
	cmd.Flags().BoolVar(&dryRun, flagDryRun, false, messages.FlagDryRun)
	return cmd
}

func newRegistryAddDependentCmd(global *globalOptions) *cobra.Command {
	var displayName string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   messages.RegistryAddDependentUse,
		Short: messages.RegistryAddDependentShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, global, dryRun, registry.AddDependent(args[0], args[1], displayName))
		},
	}
	cmd.Flags().StringVar(&displayName, flagDisplayName, "", messages.FlagDisplayName)
	cmd.Flags().BoolVar(&dryRun, flagDryRun, false, messages.FlagDryRun)
	return cmd
}

func newRegistryRemoveDependentCmd(global *globalOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   messages.RegistryRemoveDependentUse,
		Short: messages.RegistryRemoveDependentShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, global, dryRun, registry.RemoveDependent(args[0], args[1]))
		},
	}
	cmd.Flags().BoolVar(&dryRun, flagDryRun, false, messages.FlagDryRun)
	return cmd
}

// newRegistryCommitCmd records what a finished transaction did. Providers of
// installed components are registered at their manifest version and listed as
// dependents of the providers those components require. Providers of removed
// components are dropped from every dependents list and then unregistered.
func newRegistryCommitCmd(global *globalOptions) *cobra.Command {
	var transaction string
	var force, dryRun bool
	cmd := &cobra.Command{
		Use:   messages.RegistryCommitUse,
		Short: messages.RegistryCommitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := catalog.Load(transaction)
			if err != nil {
				return err
			}
			var mutations []registry.Mutation
			for _, p := range manifest.Registrations() {
				mutations = append(mutations, registry.RegisterProvider(p.Key, p.Version, p.DisplayName))
			}
			for _, link := range manifest.Links() {
				mutations = append(mutations, registry.RecordDependent(link.Provider, link.Dependent, link.DisplayName))
			}
			removals := manifest.Removals()
			for _, p := range removals {
				mutations = append(mutations, registry.DropDependent(p.Key))
			}
			for _, p := range removals {
				mutations = append(mutations, registry.UnregisterProvider(p.Key, force))
			}
			if len(mutations) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), messages.RegistryNothingToCommit)
				return err
			}
			if !cmd.Flags().Changed(flagMachine) {
				global.machine = manifest.Machine
			}
			return runMutation(cmd, global, dryRun, registry.Chain(mutations...))
		},
	}
	cmd.Flags().StringVar(&transaction, flagTransaction, "", messages.FlagTransaction)
	cmd.Flags().BoolVar(&force, flagForce, false, messages.FlagForce)
	cmd.Flags().BoolVar(&dryRun, flagDryRun, false, messages.FlagDryRun)
	_ = cmd.MarkFlagRequired(flagTransaction)
	return cmd
}

// runMutation previews or applies mutation to the hive selected by --machine.
func runMutation(cmd *cobra.Command, global *globalOptions, dryRun bool, mutation registry.Mutation) error {
	sess, err := openSession(cmd, global)
	if err != nil {
		return err
	}
	defer func() { _ = sess.logger.Sync() }()

	hive := flagHive(global)
	path, err := sess.store.Paths().For(hive)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if dryRun {
		diff, err := sess.store.Preview(hive, mutation)
		if err != nil {
			return err
		}
		if diff == "" {
			_, err = fmt.Fprintf(out, messages.RegistryNoChangesFmt, path)
			return err
		}
		_, err = fmt.Fprint(out, diff)
		return err
	}
	if err := sess.store.Apply(hive, mutation); err != nil {
		return err
	}
	sess.logger.Debug("registry updated", zap.Stringer("hive", hive), zap.String("path", path))
	_, err = fmt.Fprintf(out, messages.RegistryUpdatedFmt, path)
	return err
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conn-castle/depgate/internal/catalog"
	"github.com/conn-castle/depgate/internal/config"
	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
	"github.com/conn-castle/depgate/internal/prompt"
	"github.com/conn-castle/depgate/internal/properties"
)

const (
	flagTransaction = "transaction"
	flagProperties  = "properties"
	flagYes         = "yes"
	flagNo          = "no"
	flagIgnore      = "ignore"
	flagJSON        = "json"
)

var (
	requireDependencies = gate.RequireDependencies
	ensureNoDependents  = gate.EnsureNoDependents
	promptForMode       = prompt.ForMode
)

type checkOptions struct {
	transaction string
	properties  string
	yes         bool
	no          bool
	ignore      string
	json        bool
}

func newCheckCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.CheckUse,
		Short: messages.CheckShort,
	}
	cmd.AddCommand(
		newCheckSubcommand(global, gate.CheckRequire, messages.CheckRequireUse, messages.CheckRequireShort),
		newCheckSubcommand(global, gate.CheckDependents, messages.CheckDependentsUse, messages.CheckDependentsShort),
	)
	return cmd
}

func newCheckSubcommand(global *globalOptions, check gate.Check, use string, short string) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, global, opts, check)
		},
	}
	cmd.Flags().StringVar(&opts.transaction, flagTransaction, "", messages.FlagTransaction)
	cmd.Flags().StringVar(&opts.properties, flagProperties, "", messages.FlagProperties)
	cmd.Flags().BoolVar(&opts.yes, flagYes, false, messages.FlagYes)
	cmd.Flags().BoolVar(&opts.no, flagNo, false, messages.FlagNo)
	cmd.Flags().BoolVar(&opts.json, flagJSON, false, messages.FlagJSON)
	if check == gate.CheckDependents {
		cmd.Flags().StringVar(&opts.ignore, flagIgnore, "", messages.FlagIgnore)
	}
	_ = cmd.MarkFlagRequired(flagTransaction)
	return cmd
}

func runCheck(cmd *cobra.Command, global *globalOptions, opts *checkOptions, check gate.Check) error {
	if opts.yes && opts.no {
		return errors.New(messages.CheckYesNoExclusive)
	}
	sess, err := openSession(cmd, global)
	if err != nil {
		return err
	}
	defer func() { _ = sess.logger.Sync() }()

	manifest, err := catalog.Load(opts.transaction)
	if err != nil {
		return err
	}
	var props properties.Properties
	if opts.properties != "" {
		props, err = properties.Load(opts.properties)
		if err != nil {
			return err
		}
	}
	machine := resolveMachine(cmd, global, props, manifest)

	prompter, err := checkPrompter(cmd, sess.cfg, opts)
	if err != nil {
		return err
	}

	gateOpts := gate.Options{
		Catalog:  manifest,
		Resolver: manifest,
		Store:    sess.store,
		Prompter: prompter,
		Machine:  machine,
		Logger:   sess.logger,
	}

	var report gate.Report
	switch check {
	case gate.CheckDependents:
		ignore, source := config.ResolveIgnore(config.IgnoreSources{
			Flag:       opts.ignore,
			FlagSet:    cmd.Flags().Changed(flagIgnore),
			Properties: props,
			Config:     sess.cfg,
		})
		sess.logger.Debug("resolved ignore list", zap.String("source", source), zap.Stringer("ignore", ignore))
		gateOpts.Ignore = ignore
		report, err = ensureNoDependents(gateOpts)
		if err == nil && ignore.All() && !opts.json {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.CheckIgnoreAllFmt, check)
			return nil
		}
	default:
		report, err = requireDependencies(gateOpts)
	}
	if err != nil {
		if opts.json {
			_ = printReport(cmd.OutOrStdout(), report, true)
		}
		return err
	}
	if err := printReport(cmd.OutOrStdout(), report, opts.json); err != nil {
		return err
	}
	return outcomeError(report.Outcome)
}

// resolveMachine picks the hive context: --machine when given, then ALLUSERS
// from the property file, then the manifest.
func resolveMachine(cmd *cobra.Command, global *globalOptions, props properties.Properties, manifest *catalog.Manifest) bool {
	if cmd.Flags().Changed(flagMachine) {
		return global.machine
	}
	if machine, ok := props.Machine(); ok {
		return machine
	}
	return manifest.Machine
}

func checkPrompter(cmd *cobra.Command, cfg *config.Config, opts *checkOptions) (gate.Prompter, error) {
	switch {
	case opts.yes:
		return prompt.Fixed(gate.ResponseYes), nil
	case opts.no:
		return prompt.Fixed(gate.ResponseNo), nil
	}
	return promptForMode(cfg.Prompt.Mode, cmd.InOrStdin(), cmd.ErrOrStderr())
}

func printReport(out io.Writer, report gate.Report, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}
	outcome := outcomeColor(report.Outcome).Sprint(report.Outcome)
	if report.Prompted {
		if _, err := fmt.Fprintf(out, messages.CheckAnsweredFmt, report.Check, outcome, report.Response); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(out, messages.CheckReportFmt, report.Check, outcome); err != nil {
		return err
	}
	if report.Findings.Empty() {
		return nil
	}
	_, err := fmt.Fprintln(out, prompt.Body(report.Findings))
	return err
}

func outcomeColor(outcome gate.Outcome) *color.Color {
	switch outcome {
	case gate.OutcomeContinue:
		return color.New(color.FgGreen)
	case gate.OutcomeFail:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

package gate

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/conn-castle/depgate/internal/messages"
)

// Options supplies the collaborators of one check invocation.
type Options struct {
	Catalog  Catalog
	Resolver ActionResolver
	Store    Store
	// Prompter may be nil, which answers every batch with ResponseNoHandler.
	Prompter Prompter
	// Machine selects the per-machine hive; otherwise the per-user hive is queried.
	Machine bool
	// Ignore is consulted by the dependents check only.
	Ignore IgnoreSet
	Logger *zap.Logger
}

// Report is what a check hands back to the host.
type Report struct {
	Check    Check    `json:"check"`
	Outcome  Outcome  `json:"outcome"`
	Findings Findings `json:"findings"`
	// Prompted is true when the batch was handed to a prompter.
	Prompted bool `json:"prompted"`
	// Response is only meaningful when findings were collected.
	Response Response `json:"response"`
}

type checker struct {
	check    Check
	catalog  Catalog
	resolver ActionResolver
	store    Store
	prompter Prompter
	hive     Hive
	ignore   IgnoreSet
	log      *zap.Logger
	report   Report
}

// RequireDependencies checks every dependency declared by a component being
// installed or reinstalled and prompts once when any required provider is
// missing or out of range.
//
// A provider key reported missing is neither looked up nor reported again in
// the same invocation, whichever component declares it. Yes continues, No
// aborts, anything else fails.
func RequireDependencies(opts Options) (Report, error) {
	c, err := newChecker(CheckRequire, opts)
	if err != nil {
		return Report{Check: CheckRequire, Outcome: OutcomeFail}, err
	}
	return c.requireDependencies()
}

// EnsureNoDependents checks every provider published by a component being
// uninstalled and prompts once when registered dependents remain.
//
// An ignore-all set returns before the catalog or store is read. Yes
// continues, No or no handler stops early, Cancel fails.
func EnsureNoDependents(opts Options) (Report, error) {
	c, err := newChecker(CheckDependents, opts)
	if err != nil {
		return Report{Check: CheckDependents, Outcome: OutcomeFail}, err
	}
	return c.ensureNoDependents()
}

func newChecker(check Check, opts Options) (*checker, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf(messages.GateCatalogRequired)
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf(messages.GateResolverRequired)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf(messages.GateStoreRequired)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hive := HiveFor(opts.Machine)
	return &checker{
		check:    check,
		catalog:  opts.Catalog,
		resolver: opts.Resolver,
		store:    opts.Store,
		prompter: opts.Prompter,
		hive:     hive,
		ignore:   opts.Ignore,
		log:      logger.With(zap.Stringer("check", check), zap.Stringer("hive", hive)),
		report: Report{
			Check:    check,
			Outcome:  OutcomeContinue,
			Findings: Findings{Kind: check.Kind()},
		},
	}, nil
}

func (c *checker) requireDependencies() (Report, error) {
	deps, err := c.catalog.Dependencies()
	if err != nil {
		return c.fail(CategoryDeclaration, fmt.Errorf(messages.GateReadCatalogFmt, "dependency", err))
	}
	if len(deps) == 0 {
		c.log.Debug("no dependency declarations")
		return c.report, nil
	}

	missing := keySet{}
	for _, dep := range deps {
		action, err := c.componentAction(dep.ID, dep.Component)
		if err != nil {
			return c.failAction(err)
		}
		if !action.Installing() {
			c.log.Debug("skipping dependency", zap.String("id", dep.ID), zap.Stringer("action", action))
			continue
		}
		if err := dep.Validate(); err != nil {
			return c.fail(CategoryDeclaration, err)
		}
		if missing.has(dep.ProviderKey) {
			continue
		}

		rng := dep.Range()
		result, err := c.store.Lookup(c.hive, dep.ProviderKey, rng)
		if err != nil {
			return c.fail(CategoryStore, fmt.Errorf(messages.GateLookupProviderFmt, dep.ProviderKey, err))
		}
		c.log.Debug("looked up provider",
			zap.String("id", dep.ID),
			zap.String("provider", dep.ProviderKey),
			zap.Stringer("range", rng),
			zap.Stringer("result", result),
		)
		if result == LookupSatisfied {
			continue
		}
		missing.add(dep.ProviderKey)
		c.report.Findings.add(dep.ProviderKey, "")
	}
	return c.gate()
}

func (c *checker) ensureNoDependents() (Report, error) {
	if c.ignore.All() {
		c.log.Debug("dependents check skipped", zap.String("ignore", IgnoreAllValue))
		return c.report, nil
	}
	providers, err := c.catalog.Providers()
	if err != nil {
		return c.fail(CategoryDeclaration, fmt.Errorf(messages.GateReadCatalogFmt, "provider", err))
	}
	if len(providers) == 0 {
		c.log.Debug("no provider declarations")
		return c.report, nil
	}

	for _, provider := range providers {
		action, err := c.componentAction(provider.ID, provider.Component)
		if err != nil {
			return c.failAction(err)
		}
		if !action.Removing() {
			c.log.Debug("skipping provider", zap.String("id", provider.ID), zap.Stringer("action", action))
			continue
		}
		if err := provider.Validate(); err != nil {
			return c.fail(CategoryDeclaration, err)
		}

		dependents, err := c.store.DependentsOf(c.hive, provider.ProviderKey, provider.Attributes)
		if err != nil {
			return c.fail(CategoryStore, fmt.Errorf(messages.GateListDependentsFmt, provider.ProviderKey, err))
		}
		for _, dependent := range dependents {
			if c.ignore.Contains(dependent.Key) {
				c.log.Debug("ignoring dependent",
					zap.String("provider", provider.ProviderKey),
					zap.String("dependent", dependent.Key),
				)
				continue
			}
			c.report.Findings.add(dependent.Key, dependent.DisplayName)
		}
	}
	return c.gate()
}

// componentAction resolves the owning component's action. A row without a
// component cannot be filtered and is reported as a declaration error.
func (c *checker) componentAction(id string, component string) (Action, error) {
	if strings.TrimSpace(component) == "" {
		return ActionUnknown, &DeclarationError{ID: id, Field: "component"}
	}
	action, err := c.resolver.ComponentAction(component)
	if err != nil {
		return ActionUnknown, fmt.Errorf(messages.GateResolveActionFmt, component, err)
	}
	return action, nil
}

// gate hands the whole batch to the prompter once and maps the answer.
func (c *checker) gate() (Report, error) {
	findings := c.report.Findings
	if findings.Empty() {
		c.log.Debug("no findings")
		return c.report, nil
	}
	c.log.Info("prompting for findings", zap.Object("findings", findings))

	response := ResponseNoHandler
	if c.prompter != nil {
		c.report.Prompted = true
		answer, err := c.prompter.Prompt(findings)
		if err != nil {
			return c.fail(CategoryPrompt, fmt.Errorf(messages.GatePromptFailedFmt, findings.Kind, err))
		}
		response = answer
	}
	c.report.Response = response
	c.report.Outcome = c.check.Outcomes().Resolve(response)
	c.log.Info("check finished", zap.Stringer("response", response), zap.Stringer("outcome", c.report.Outcome))

	if c.report.Outcome != OutcomeFail {
		return c.report, nil
	}
	sentinel := ErrDependenciesMissing
	if c.check == CheckDependents {
		sentinel = ErrDependentsPresent
	}
	return c.report, &CheckError{
		Check:    c.check,
		Category: CategoryPolicy,
		Err:      fmt.Errorf(messages.GatePolicyFindingsFmt, sentinel, strings.Join(findings.Keys(), ", ")),
	}
}

func (c *checker) failAction(err error) (Report, error) {
	var declErr *DeclarationError
	if errors.As(err, &declErr) {
		return c.fail(CategoryDeclaration, err)
	}
	return c.fail(CategoryAction, err)
}

func (c *checker) fail(category Category, err error) (Report, error) {
	c.report.Outcome = OutcomeFail
	c.log.Error("check failed", zap.String("category", string(category)), zap.Error(err))
	return c.report, &CheckError{Check: c.check, Category: category, Err: err}
}

package gate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequireDependencies_ScenarioA_SatisfiedContinuesWithoutPrompt(t *testing.T) {
	catalog := &fakeCatalog{deps: []DependencyDeclaration{
		{ID: "d1", Component: "C1", ProviderKey: "P1", MinVersion: "1.0", MaxVersion: "2.0"},
	}}
	store := newCountingStore().register("P1", registration{version: "1.5"})
	prompter := &recordingPrompter{response: ResponseNo}

	report, err := RequireDependencies(Options{
		Catalog:  catalog,
		Resolver: actionMap{"C1": ActionInstall},
		Store:    store,
		Prompter: prompter,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, report.Outcome)
	assert.False(t, report.Prompted)
	assert.Empty(t, prompter.batches)
	assert.Equal(t, []string{"P1"}, store.lookups)
}

func TestRequireDependencies_ScenarioB_MissingAndDeclinedAborts(t *testing.T) {
	catalog := &fakeCatalog{deps: []DependencyDeclaration{
		{ID: "d1", Component: "C1", ProviderKey: "P1", MinVersion: "1.0", MaxVersion: "2.0"},
	}}
	prompter := &recordingPrompter{response: ResponseNo}

	report, err := RequireDependencies(Options{
		Catalog:  catalog,
		Resolver: actionMap{"C1": ActionInstall},
		Store:    newCountingStore(),
		Prompter: prompter,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAbort, report.Outcome)
	require.Len(t, prompter.batches, 1)
	assert.Equal(t, KindMissingDependencies, prompter.batches[0].Kind)
	assert.Equal(t, []Finding{{ProviderKey: "P1", DisplayName: "P1"}}, prompter.batches[0].Items)
	assert.Equal(t, ResponseNo, report.Response)
}

func TestRequireDependencies_ScenarioC_DeduplicatesAcrossComponents(t *testing.T) {
	catalog := &fakeCatalog{deps: []DependencyDeclaration{
		{ID: "d1", Component: "C1", ProviderKey: "P2"},
		{ID: "d2", Component: "C2", ProviderKey: "p2"},
		{ID: "d3", Component: "C2", ProviderKey: "P3"},
	}}
	store := newCountingStore()
	prompter := &recordingPrompter{response: ResponseYes}

	report, err := RequireDependencies(Options{
		Catalog:  catalog,
		Resolver: actionMap{"C1": ActionInstall, "C2": ActionReinstall},
		Store:    store,
		Prompter: prompter,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, report.Outcome)
	require.Len(t, prompter.batches, 1)
	assert.Equal(t, []string{"P2", "P3"}, prompter.batches[0].Keys())
	// The second P2 row is never looked up once P2 is known to be missing.
	assert.Equal(t, []string{"P2", "P3"}, store.lookups)
}

func TestRequireDependencies_SatisfiedKeyIsEvaluatedAgain(t *testing.T) {
	catalog := &fakeCatalog{deps: []DependencyDeclaration{
		{ID: "d1", Component: "C1", ProviderKey: "P1", MinVersion: "1.0"},
		{ID: "d2", Component: "C2", ProviderKey: "P1", MinVersion: "3.0"},
	}}
	store := newCountingStore().register("P1", registration{version: "2.0"})
	prompter := &recordingPrompter{response: ResponseYes}

	report, err := RequireDependencies(Options{
		Catalog:  catalog,
		Resolver: actionMap{"C1": ActionInstall, "C2": ActionInstall},
		Store:    store,
		Prompter: prompter,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, report.Outcome)
	assert.Equal(t, []string{"P1", "P1"}, store.lookups)
	require.Len(t, prompter.batches, 1)
	assert.Equal(t, []string{"P1"}, prompter.batches[0].Keys())
}

func TestRequireDependencies_FilteringLaw(t *testing.T) {
	for _, action := range []Action{ActionUnknown, ActionNone, ActionUninstall} {
		t.Run(action.String(), func(t *testing.T) {
			catalog := &fakeCatalog{deps: []DependencyDeclaration{
				// Malformed bounds on a filtered row have no effect either.
				{ID: "d1", Component: "C1", ProviderKey: "P1", MinVersion: "not-a-version"},
			}}
			store := newCountingStore()
			prompter := &recordingPrompter{response: ResponseCancel}

			report, err := RequireDependencies(Options{
				Catalog:  catalog,
				Resolver: actionMap{"C1": action},
				Store:    store,
				Prompter: prompter,
			})

			require.NoError(t, err)
			assert.Equal(t, OutcomeContinue, report.Outcome)
			assert.Zero(t, store.calls())
			assert.Empty(t, prompter.batches)
			assert.True(t, report.Findings.Empty())
		})
	}
}

func TestRequireDependencies_EmptyCatalogSkipsStore(t *testing.T) {
	store := newCountingStore()
	resolverCalls := 0
	report, err := RequireDependencies(Options{
		Catalog: &fakeCatalog{},
		Resolver: resolverFunc(func(string) (Action, error) {
			resolverCalls++
			return ActionInstall, nil
		}),
		Store: store,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, report.Outcome)
	assert.Zero(t, store.calls())
	assert.Zero(t, resolverCalls)
}

func TestRequireDependencies_OutOfRangeIsAFinding(t *testing.T) {
	catalog := &fakeCatalog{deps: []DependencyDeclaration{
		{ID: "d1", Component: "C1", ProviderKey: "P1", MinVersion: "1.0", MaxVersion: "2.0"},
	}}
	store := newCountingStore().register("P1", registration{version: "2.0"})
	prompter := &recordingPrompter{response: ResponseNo}

	report, err := RequireDependencies(Options{
		Catalog:  catalog,
		Resolver: actionMap{"C1": ActionInstall},
		Store:    store,
		Prompter: prompter,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAbort, report.Outcome)
	assert.Equal(t, []string{"P1"}, report.Findings.Keys())
}

func TestRequireDependencies_VersionSkipReasonsAreIndependent(t *testing.T) {
	cases := []struct {
		name string
		dep  DependencyDeclaration
	}{
		{
			name: "no bounds",
			dep:  DependencyDeclaration{ID: "d1", Component: "C1", ProviderKey: "P1"},
		},
		{
			name: "ignore version attribute",
			dep: DependencyDeclaration{
				ID: "d1", Component: "C1", ProviderKey: "P1",
				MinVersion: "5.0", MaxVersion: "6.0", Attributes: AttrIgnoreVersion,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newCountingStore().register("P1", registration{version: "1.0"})
			report, err := RequireDependencies(Options{
				Catalog:  &fakeCatalog{deps: []DependencyDeclaration{tc.dep}},
				Resolver: actionMap{"C1": ActionInstall},
				Store:    store,
			})
			require.NoError(t, err)
			assert.Equal(t, OutcomeContinue, report.Outcome)
			assert.Len(t, store.lookups, 1)
		})
	}
}

func TestRequireDependencies_OutcomeMapping(t *testing.T) {
	cases := []struct {
		response Response
		want     Outcome
		wantErr  bool
	}{
		{ResponseYes, OutcomeContinue, false},
		{ResponseNo, OutcomeAbort, false},
		{ResponseCancel, OutcomeFail, true},
		{ResponseNoHandler, OutcomeFail, true},
		{Response(42), OutcomeFail, true},
	}
	for _, tc := range cases {
		t.Run(tc.response.String(), func(t *testing.T) {
			report, err := RequireDependencies(Options{
				Catalog:  &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", Component: "C1", ProviderKey: "P1"}}},
				Resolver: actionMap{"C1": ActionInstall},
				Store:    newCountingStore(),
				Prompter: &recordingPrompter{response: tc.response},
			})
			assert.Equal(t, tc.want, report.Outcome)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			var checkErr *CheckError
			require.ErrorAs(t, err, &checkErr)
			assert.Equal(t, CategoryPolicy, checkErr.Category)
			assert.ErrorIs(t, err, ErrDependenciesMissing)
			assert.Contains(t, err.Error(), "P1")
		})
	}
}

func TestRequireDependencies_NilPrompterIsNoHandler(t *testing.T) {
	report, err := RequireDependencies(Options{
		Catalog:  &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", Component: "C1", ProviderKey: "P1"}}},
		Resolver: actionMap{"C1": ActionInstall},
		Store:    newCountingStore(),
	})
	assert.ErrorIs(t, err, ErrDependenciesMissing)
	assert.Equal(t, OutcomeFail, report.Outcome)
	assert.False(t, report.Prompted)
	assert.Equal(t, ResponseNoHandler, report.Response)
}

func TestRequireDependencies_HardFailures(t *testing.T) {
	storeErr := errors.New("registry unreadable")
	actionErr := errors.New("component table locked")
	cases := []struct {
		name     string
		opts     func(*Options)
		category Category
		wantErr  error
	}{
		{
			name: "catalog read error",
			opts: func(o *Options) {
				o.Catalog = &fakeCatalog{depsErr: errors.New("bad table")}
			},
			category: CategoryDeclaration,
		},
		{
			name: "missing provider key",
			opts: func(o *Options) {
				o.Catalog = &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", Component: "C1"}}}
			},
			category: CategoryDeclaration,
		},
		{
			name: "missing component",
			opts: func(o *Options) {
				o.Catalog = &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", ProviderKey: "P1"}}}
			},
			category: CategoryDeclaration,
		},
		{
			name: "malformed version",
			opts: func(o *Options) {
				o.Catalog = &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", Component: "C1", ProviderKey: "P1", MaxVersion: "x.y"}}}
			},
			category: CategoryDeclaration,
		},
		{
			name: "store error",
			opts: func(o *Options) {
				s := newCountingStore()
				s.lookupErr = storeErr
				o.Store = s
			},
			category: CategoryStore,
			wantErr:  storeErr,
		},
		{
			name: "action error",
			opts: func(o *Options) {
				o.Resolver = resolverFunc(func(string) (Action, error) { return ActionUnknown, actionErr })
			},
			category: CategoryAction,
			wantErr:  actionErr,
		},
		{
			name: "prompt error",
			opts: func(o *Options) {
				o.Prompter = &recordingPrompter{err: errors.New("tty closed")}
			},
			category: CategoryPrompt,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := Options{
				Catalog:  &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", Component: "C1", ProviderKey: "P1"}}},
				Resolver: actionMap{"C1": ActionInstall},
				Store:    newCountingStore(),
				Prompter: &recordingPrompter{response: ResponseYes},
			}
			tc.opts(&opts)

			report, err := RequireDependencies(opts)

			assert.Equal(t, OutcomeFail, report.Outcome)
			var checkErr *CheckError
			require.ErrorAs(t, err, &checkErr)
			assert.Equal(t, tc.category, checkErr.Category)
			assert.Equal(t, CheckRequire, checkErr.Check)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestRequireDependencies_DeclarationErrorIsTyped(t *testing.T) {
	_, err := RequireDependencies(Options{
		Catalog:  &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", Component: "C1", ProviderKey: " "}}},
		Resolver: actionMap{"C1": ActionInstall},
		Store:    newCountingStore(),
	})
	var declErr *DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, "d1", declErr.ID)
	assert.Equal(t, "provider key", declErr.Field)
}

func TestRequireDependencies_MachineSelectsHive(t *testing.T) {
	for _, machine := range []bool{false, true} {
		store := newCountingStore().register("P1", registration{version: "1.0"})
		_, err := RequireDependencies(Options{
			Catalog:  &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", Component: "C1", ProviderKey: "P1"}}},
			Resolver: actionMap{"C1": ActionInstall},
			Store:    store,
			Machine:  machine,
		})
		require.NoError(t, err)
		assert.Equal(t, []Hive{HiveFor(machine)}, store.hives)
	}
}

func TestChecks_RequireCollaborators(t *testing.T) {
	full := Options{Catalog: &fakeCatalog{}, Resolver: actionMap{}, Store: newCountingStore()}
	cases := map[string]func(Options) Options{
		"catalog":  func(o Options) Options { o.Catalog = nil; return o },
		"resolver": func(o Options) Options { o.Resolver = nil; return o },
		"store":    func(o Options) Options { o.Store = nil; return o },
	}
	for name, strip := range cases {
		t.Run(name, func(t *testing.T) {
			report, err := RequireDependencies(strip(full))
			assert.Error(t, err)
			assert.Equal(t, OutcomeFail, report.Outcome)

			report, err = EnsureNoDependents(strip(full))
			assert.Error(t, err)
			assert.Equal(t, OutcomeFail, report.Outcome)
		})
	}
}

func TestEnsureNoDependents_ScenarioD_IgnoredDependentDropped(t *testing.T) {
	catalog := &fakeCatalog{providers: []ProviderDeclaration{
		{ID: "p3", Component: "C3", ProviderKey: "P3"},
	}}
	store := newCountingStore().register("P3", registration{
		version: "1.0",
		dependents: []Dependent{
			{Key: "D1", DisplayName: "Dependent One"},
			{Key: "D2", DisplayName: "Dependent Two"},
		},
	})
	prompter := &recordingPrompter{response: ResponseYes}

	report, err := EnsureNoDependents(Options{
		Catalog:  catalog,
		Resolver: actionMap{"C3": ActionUninstall},
		Store:    store,
		Prompter: prompter,
		Ignore:   ParseIgnoreSet("d1"),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, report.Outcome)
	require.Len(t, prompter.batches, 1)
	assert.Equal(t, KindLiveDependents, prompter.batches[0].Kind)
	assert.Equal(t, []Finding{{ProviderKey: "D2", DisplayName: "Dependent Two"}}, prompter.batches[0].Items)
}

func TestEnsureNoDependents_ScenarioE_IgnoreAllSkipsEverything(t *testing.T) {
	catalog := &fakeCatalog{providers: []ProviderDeclaration{
		{ID: "p1", Component: "C1", ProviderKey: "P1"},
		{ID: "p2", Component: "C2", ProviderKey: "P2"},
	}}
	store := newCountingStore().register("P1", registration{dependents: []Dependent{{Key: "D1"}}})
	prompter := &recordingPrompter{response: ResponseCancel}

	report, err := EnsureNoDependents(Options{
		Catalog:  catalog,
		Resolver: actionMap{"C1": ActionUninstall, "C2": ActionUninstall},
		Store:    store,
		Prompter: prompter,
		Ignore:   ParseIgnoreSet("all"),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, report.Outcome)
	assert.Zero(t, store.calls())
	assert.Zero(t, catalog.reads)
	assert.Empty(t, prompter.batches)
}

func TestEnsureNoDependents_FilteringLaw(t *testing.T) {
	for _, action := range []Action{ActionUnknown, ActionNone, ActionInstall, ActionReinstall} {
		t.Run(action.String(), func(t *testing.T) {
			store := newCountingStore().register("P1", registration{dependents: []Dependent{{Key: "D1"}}})
			report, err := EnsureNoDependents(Options{
				Catalog:  &fakeCatalog{providers: []ProviderDeclaration{{ID: "p1", Component: "C1", ProviderKey: "P1"}}},
				Resolver: actionMap{"C1": action},
				Store:    store,
			})
			require.NoError(t, err)
			assert.Equal(t, OutcomeContinue, report.Outcome)
			assert.Zero(t, store.calls())
		})
	}
}

func TestEnsureNoDependents_EmptyCatalogSkipsStore(t *testing.T) {
	store := newCountingStore()
	report, err := EnsureNoDependents(Options{
		Catalog:  &fakeCatalog{},
		Resolver: actionMap{},
		Store:    store,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, report.Outcome)
	assert.Zero(t, store.calls())
}

func TestEnsureNoDependents_NoCrossProviderDeduplication(t *testing.T) {
	catalog := &fakeCatalog{providers: []ProviderDeclaration{
		{ID: "p1", Component: "C1", ProviderKey: "P1"},
		{ID: "p2", Component: "C1", ProviderKey: "P2"},
	}}
	store := newCountingStore().
		register("P1", registration{dependents: []Dependent{{Key: "D1"}}}).
		register("P2", registration{dependents: []Dependent{{Key: "D1"}}})
	prompter := &recordingPrompter{response: ResponseNo}

	report, err := EnsureNoDependents(Options{
		Catalog:  catalog,
		Resolver: actionMap{"C1": ActionUninstall},
		Store:    store,
		Prompter: prompter,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeStopEarly, report.Outcome)
	require.Len(t, prompter.batches, 1)
	assert.Equal(t, []Finding{
		{ProviderKey: "D1", DisplayName: "D1"},
		{ProviderKey: "D1", DisplayName: "D1"},
	}, prompter.batches[0].Items)
}

func TestEnsureNoDependents_NoDependentsContinues(t *testing.T) {
	store := newCountingStore().register("P1", registration{version: "1.0"})
	prompter := &recordingPrompter{response: ResponseCancel}
	report, err := EnsureNoDependents(Options{
		Catalog:  &fakeCatalog{providers: []ProviderDeclaration{{ID: "p1", Component: "C1", ProviderKey: "P1"}}},
		Resolver: actionMap{"C1": ActionUninstall},
		Store:    store,
		Prompter: prompter,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeContinue, report.Outcome)
	assert.Equal(t, []string{"P1"}, store.depQueries)
	assert.Empty(t, prompter.batches)
}

func TestEnsureNoDependents_OutcomeMapping(t *testing.T) {
	cases := []struct {
		response Response
		want     Outcome
	}{
		{ResponseYes, OutcomeContinue},
		{ResponseNo, OutcomeStopEarly},
		{ResponseCancel, OutcomeFail},
		{ResponseNoHandler, OutcomeStopEarly},
	}
	for _, tc := range cases {
		t.Run(tc.response.String(), func(t *testing.T) {
			store := newCountingStore().register("P1", registration{dependents: []Dependent{{Key: "D1"}}})
			report, err := EnsureNoDependents(Options{
				Catalog:  &fakeCatalog{providers: []ProviderDeclaration{{ID: "p1", Component: "C1", ProviderKey: "P1"}}},
				Resolver: actionMap{"C1": ActionUninstall},
				Store:    store,
				Prompter: &recordingPrompter{response: tc.response},
			})
			assert.Equal(t, tc.want, report.Outcome)
			if tc.want == OutcomeFail {
				var checkErr *CheckError
				require.ErrorAs(t, err, &checkErr)
				assert.Equal(t, CategoryPolicy, checkErr.Category)
				assert.Equal(t, CheckDependents, checkErr.Check)
				assert.ErrorIs(t, err, ErrDependentsPresent)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEnsureNoDependents_StoreErrorFails(t *testing.T) {
	store := newCountingStore()
	store.depsErr = errors.New("hive unreadable")
	report, err := EnsureNoDependents(Options{
		Catalog:  &fakeCatalog{providers: []ProviderDeclaration{{ID: "p1", Component: "C1", ProviderKey: "P1"}}},
		Resolver: actionMap{"C1": ActionUninstall},
		Store:    store,
	})
	assert.Equal(t, OutcomeFail, report.Outcome)
	var checkErr *CheckError
	require.ErrorAs(t, err, &checkErr)
	assert.Equal(t, CategoryStore, checkErr.Category)
	assert.ErrorIs(t, err, store.depsErr)
}

func TestEnsureNoDependents_MalformedProviderFails(t *testing.T) {
	report, err := EnsureNoDependents(Options{
		Catalog:  &fakeCatalog{providers: []ProviderDeclaration{{ID: "p1", Component: "C1"}}},
		Resolver: actionMap{"C1": ActionUninstall},
		Store:    newCountingStore(),
	})
	assert.Equal(t, OutcomeFail, report.Outcome)
	var declErr *DeclarationError
	require.ErrorAs(t, err, &declErr)
	assert.Equal(t, "provider key", declErr.Field)
}

func TestChecks_LogFindingsBatch(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := RequireDependencies(Options{
		Catalog:  &fakeCatalog{deps: []DependencyDeclaration{{ID: "d1", Component: "C1", ProviderKey: "P1"}}},
		Resolver: actionMap{"C1": ActionInstall},
		Store:    newCountingStore(),
		Prompter: &recordingPrompter{response: ResponseYes},
		Logger:   zap.New(core),
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("prompting for findings").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "dependency", fields["check"])
	findings, ok := fields["findings"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "missing-dependencies", findings["kind"])
	assert.EqualValues(t, 1, findings["count"])
}

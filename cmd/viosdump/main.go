// viosdump is a debugging helper that dumps the raw contents of a capture
// history file. It prints every stored revision, optionally restoring the
// full settings tree at each one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/davecgh/go-spew/spew"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vios-project/vios/internal/service"
	"github.com/vios-project/vios/internal/store"
	bboltStore "github.com/vios-project/vios/internal/store/bbolt"
	"github.com/vios-project/vios/internal/util"
	"github.com/vios-project/vios/pkg/settings"
)

func main() {
	var (
		flagFile       string
		flagRestore    bool
		flagFilterExpr string

		flagSystems util.StringSliceFlag
	)
	flag.StringVar(&flagFile, "file", "history.bb", "Capture history file to dump")
	flag.BoolVar(&flagRestore, "restore", false, "Restore and print the full settings tree at every revision")
	flag.StringVar(&flagFilterExpr, "filter-expr", "All()", "Expression to filter which settings to print when restoring")
	flag.Var(&flagSystems, "system", "System ID to dump (can be specified multiple times, default: all)")
	flag.Parse()

	program, err := expr.Compile(flagFilterExpr, expr.Env(util.DiffEntryEnv{}), expr.AsBool())
	if err != nil {
		log.Fatalf("Error compiling expression: %v", err)
	}

	cs, err := bboltStore.New(flagFile, nil, true)
	if err != nil {
		log.Fatalf("Error opening capture store: %v", err)
	}
	defer func(cs store.CaptureStore) {
		_ = cs.Close()
	}(cs)

	systems := []string(flagSystems)
	if len(systems) == 0 {
		systems, err = cs.Systems()
		if err != nil {
			log.Fatalf("Error listing systems: %v", err)
		}
	}

	svc := service.NewCaptureService(cs, 0, true)
	ctx := context.Background()

	for _, systemID := range systems {
		fmt.Printf("=== %s ===\n", systemID)
		err := cs.WalkRevisions(systemID, func(rev store.RevisionID, snap *store.Snapshot, p *store.Patch) bool {
			if snap != nil {
				fmt.Printf("revision %s (snapshot, %d menus, %s)\n", rev, len(snap.Tree), snap.Time)
			} else {
				fmt.Printf("revision %s (patch, %d menus changed, %s)\n", rev, len(p.Change), p.Time)
				spew.Dump(p.Change)
			}
			if flagRestore {
				state, restoreErr := svc.Restore(ctx, systemID, rev)
				if restoreErr != nil {
					log.Fatalf("Error restoring revision %s: %v", rev, restoreErr)
				}
				dumpTree(program, state.Tree)
			}
			return true
		})
		if err != nil {
			log.Fatalf("Error walking revisions of %s: %v", systemID, err)
		}
	}
}

// dumpTree prints the settings that pass the filter expression. Each
// setting is presented to the expression as a diff entry with only the
// current side filled in.
func dumpTree(program *vm.Program, tree settings.Tree) {
	for menu, m := range tree {
		for name, value := range m {
			entry := settings.DiffEntry{MenuPath: menu, Setting: name, Current: value}
			pass, err := expr.Run(program, util.DiffEntryEnv{Entry: entry})
			if err != nil {
				log.Fatalf("Error running expression: %v", err)
			}
			if pass.(bool) {
				spew.Printf("%s | %s = %q\n", menu, name, value)
			}
		}
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vios-project/vios/internal/biostool"
	"github.com/vios-project/vios/internal/service"
	bboltStore "github.com/vios-project/vios/internal/store/bbolt"
	"github.com/vios-project/vios/internal/sysinfo"
	"github.com/vios-project/vios/internal/template"
	"github.com/vios-project/vios/internal/ui"
	"github.com/vios-project/vios/internal/util"
	"github.com/vios-project/vios/pkg/diffreport"
	"github.com/vios-project/vios/pkg/settings"
)

var (
	compareURL     string
	filterExpr     string
	headlessMode   bool
	noDurableSync  bool
	disableCache   bool
	snapshotEvery  uint64
	skipHistory    bool
	exitOnMismatch bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare current BIOS settings against the golden template",
	Long: `Compare captures the current BIOS settings, downloads the latest golden
template for the project (or the one at --url), and reports every setting
that differs. The capture is recorded in the local history store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCompare(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareURL, "url", "u", "",
		"Compare against the golden template at this URL instead of the latest")
	compareCmd.Flags().StringVarP(&filterExpr, "filter", "f", "All()",
		"Filter expression to select which differences to report")
	compareCmd.Flags().BoolVarP(&headlessMode, "headless", "H", false,
		"Print a plain report instead of the interactive viewer")
	compareCmd.Flags().BoolVar(&noDurableSync, "no-durable-sync", false,
		"Skip fsync on every history commit (unsafe on crashes)")
	compareCmd.Flags().BoolVar(&disableCache, "disable-cache", false,
		"Disable in-memory cache layer for the history store")
	compareCmd.Flags().Uint64VarP(&snapshotEvery, "snapshot-interval", "s", 8,
		"Create a full history snapshot after this many patches")
	compareCmd.Flags().BoolVar(&skipHistory, "no-history", false,
		"Do not record this capture in the history store")
	compareCmd.Flags().BoolVar(&exitOnMismatch, "check", false,
		"Exit non-zero when any setting differs (implies --headless)")

	mustBind("snapshot-interval",
		viper.BindPFlag("snapshot-interval", compareCmd.Flags().Lookup("snapshot-interval")))
}

func runCompare(ctx context.Context) error {
	closeLog, err := setupDebugLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	prog, err := expr.Compile(filterExpr, expr.Env(util.DiffEntryEnv{}), expr.AsBool())
	if err != nil {
		return fmt.Errorf("compiling filter expression: %w", err)
	}

	info, tool, workspace, err := gatherSystem(ctx)
	if err != nil {
		return err
	}

	current, captureWarnings, err := captureCurrent(ctx, info, tool, workspace)
	if err != nil {
		return err
	}

	tpl, err := fetchTemplate(ctx, info)
	if err != nil {
		if errors.Is(err, template.ErrNoTemplate) {
			fmt.Println("No golden template could be found for the system.")
			fmt.Println("To upload the current BIOS settings as the golden template run <vios upload>.")
			return nil
		}
		return err
	}
	templateTree, templateWarnings, err := settings.Parse(string(tpl.Content), info.Board)
	if err != nil {
		return fmt.Errorf("parsing golden template %s: %w", tpl.Name, err)
	}

	diffs, compareWarnings, err := settings.Compare(current, templateTree)
	if err != nil {
		return err
	}
	diffs, err = filterDiffs(prog, diffs)
	if err != nil {
		return err
	}

	if !skipHistory {
		recordCapture(ctx, info.SystemID(), current)
	}

	warnings := append(append(captureWarnings, templateWarnings...), compareWarnings...)
	title := fmt.Sprintf("%s vs %s", info.SystemID(), tpl.Name)

	if headlessMode || exitOnMismatch {
		fmt.Print(diffreport.Render(diffs, warnings, reportTheme(), diffreport.DefaultRenderOptions))
		if exitOnMismatch && len(diffs) > 0 {
			os.Exit(1)
		}
		return nil
	}

	model := ui.NewReportModel(title, diffs, warnings, ui.DarkTheme)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// captureCurrent runs the vendor tool into the workspace and parses the
// resulting file.
func captureCurrent(
	ctx context.Context,
	info *sysinfo.Info,
	tool biostool.Tool,
	workspace *biostool.Workspace,
) (settings.Tree, []settings.Warning, error) {
	dest, err := workspace.CaptureFile(info.Date, tool.FileExtension())
	if err != nil {
		return nil, nil, err
	}
	if err := tool.Capture(ctx, dest); err != nil {
		return nil, nil, err
	}
	content, err := os.ReadFile(dest)
	if err != nil {
		return nil, nil, fmt.Errorf("reading captured settings: %w", err)
	}
	tree, warnings, err := settings.Parse(string(content), info.Board)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing captured settings: %w", err)
	}
	return tree, warnings, nil
}

func fetchTemplate(ctx context.Context, info *sysinfo.Info) (*template.Template, error) {
	client := newTemplateClient()
	if compareURL != "" {
		return client.FetchURL(ctx, compareURL, info.Board)
	}
	return client.FetchLatest(ctx, info.ProjectNumber, info.Customer)
}

func filterDiffs(prog *vm.Program, diffs []settings.DiffEntry) ([]settings.DiffEntry, error) {
	filtered := diffs[:0]
	for _, d := range diffs {
		pass, err := expr.Run(prog, util.DiffEntryEnv{Entry: d})
		if err != nil {
			return nil, fmt.Errorf("running filter expression: %w", err)
		}
		if pass.(bool) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// recordCapture commits the tree to the local history store. History is a
// convenience, so failures are logged rather than aborting the compare.
func recordCapture(ctx context.Context, systemID string, tree settings.Tree) {
	file, err := historyFile()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot resolve history file, capture not recorded")
		return
	}
	cs, err := bboltStore.New(file, nil, !noDurableSync)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot open history store, capture not recorded")
		return
	}
	defer func() { _ = cs.Close() }()

	svc := service.NewCaptureService(cs, snapshotEvery, !disableCache)
	rev, err := svc.Commit(ctx, systemID, tree)
	if err != nil {
		var unchanged service.UnchangedCaptureError
		if errors.As(err, &unchanged) {
			log.Debug().Msgf("Capture identical to revision %s, not recorded again", unchanged.RevisionID)
			return
		}
		log.Warn().Err(err).Msg("Cannot record capture in history store")
		return
	}
	log.Debug().Msgf("Capture recorded as revision %s", rev)
}

func reportTheme() diffreport.Theme {
	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		return diffreport.DarkTheme
	}
	return diffreport.PlainTheme
}

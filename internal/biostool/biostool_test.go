package biostool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vios-project/vios/pkg/settings"
)

// fakeRunner records invocations and replays canned output.
type fakeRunner struct {
	output []byte
	err    error

	gotName string
	gotArgs []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.gotName = name
	f.gotArgs = args
	return f.output, f.err
}

func TestForBoard(t *testing.T) {
	if _, err := ForBoard(settings.BoardOther, &fakeRunner{}); !errors.Is(err, ErrUnsupportedBoard) {
		t.Fatalf("other board: want ErrUnsupportedBoard, got %v", err)
	}
	sm, _ := ForBoard(settings.BoardSupermicro, &fakeRunner{})
	if sm.FileExtension() != ".bios" {
		t.Fatalf("supermicro extension: got %q", sm.FileExtension())
	}
	intel, _ := ForBoard(settings.BoardIntel, &fakeRunner{})
	if intel.FileExtension() != ".INI" {
		t.Fatalf("intel extension: got %q", intel.FileExtension())
	}
}

func TestSupermicroCapture(t *testing.T) {
	runner := &fakeRunner{output: []byte("File 'x.bios' is created.\n")}
	tool := &Supermicro{runner: runner}

	if err := tool.Capture(context.Background(), "/tmp/x.bios"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if runner.gotName != "sum" || runner.gotArgs[1] != "getcurrentbioscfg" {
		t.Fatalf("wrong invocation: %s %v", runner.gotName, runner.gotArgs)
	}

	// missing success marker must fail even with a zero exit status
	runner.output = []byte("some unrelated chatter")
	if err := tool.Capture(context.Background(), "/tmp/x.bios"); err == nil {
		t.Fatal("capture without 'created' marker must fail")
	}
}

func TestSupermicroCheckActivation(t *testing.T) {
	cases := []struct {
		output string
		ok     bool
	}{
		{"Node Product Key Activated......OOB", true},
		{"Feature Toggled On............Yes", true},
		{"Node Product Key Activated......None", false},
	}
	for _, tc := range cases {
		tool := &Supermicro{runner: &fakeRunner{output: []byte(tc.output)}}
		err := tool.CheckActivation(context.Background())
		if tc.ok && err != nil {
			t.Errorf("output %q: unexpected error %v", tc.output, err)
		}
		if !tc.ok && !errors.Is(err, ErrNotActivated) {
			t.Errorf("output %q: want ErrNotActivated, got %v", tc.output, err)
		}
	}
}

func TestIntelCapture(t *testing.T) {
	runner := &fakeRunner{output: []byte("Successfully Completed\n")}
	tool := &Intel{runner: runner}

	if err := tool.Capture(context.Background(), "/tmp/x.INI"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if runner.gotName != "syscfg" || runner.gotArgs[0] != "/s" || runner.gotArgs[2] != "/b" {
		t.Fatalf("wrong invocation: %s %v", runner.gotName, runner.gotArgs)
	}

	runner.output = []byte("Error: cannot open device")
	if err := tool.Capture(context.Background(), "/tmp/x.INI"); err == nil {
		t.Fatal("capture without success marker must fail")
	}
}

func TestIntelApply(t *testing.T) {
	runner := &fakeRunner{output: []byte("Successfully Completed\n")}
	tool := &Intel{runner: runner}
	if err := tool.Apply(context.Background(), "/tmp/gt.INI"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if runner.gotArgs[0] != "/r" {
		t.Fatalf("apply must use /r, got %v", runner.gotArgs)
	}
}

func TestWorkspaceCaptureFile(t *testing.T) {
	w := &Workspace{Dir: t.TempDir()}

	// plant stale files; only capture files may be removed
	stale := filepath.Join(w.Dir, "current_bios_settings_2020-01-01-00-00-00.bios")
	keep := filepath.Join(w.Dir, "GOLDEN_TEMPLATE_P_C_2020-01-01-00-00-00.bios")
	_ = os.WriteFile(stale, []byte("old"), 0o644)
	_ = os.WriteFile(keep, []byte("gt"), 0o644)

	at := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	path, err := w.CaptureFile(at, ".bios")
	if err != nil {
		t.Fatalf("capture file: %v", err)
	}
	if !strings.HasSuffix(path, "current_bios_settings_2024-06-01-12-30-00.bios") {
		t.Fatalf("unexpected capture path %q", path)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale capture file should be removed")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatal("golden template must survive capture cleanup")
	}
}

func TestWorkspaceTemplateFile(t *testing.T) {
	w := &Workspace{Dir: t.TempDir()}
	stale := filepath.Join(w.Dir, "golden_template_old.INI")
	_ = os.WriteFile(stale, []byte("old"), 0o644)

	name := TemplateName("P12345", "ACME", time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC), ".INI")
	if name != "GOLDEN_TEMPLATE_P12345_ACME_2024-06-01-12-30-00.INI" {
		t.Fatalf("template name: got %q", name)
	}

	path, err := w.TemplateFile(name)
	if err != nil {
		t.Fatalf("template file: %v", err)
	}
	if filepath.Base(path) != name {
		t.Fatalf("unexpected template path %q", path)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale template should be removed")
	}
}

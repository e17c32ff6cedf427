// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/plugload/plugload/internal/config"
	"github.com/plugload/plugload/internal/testutil"
	"github.com/plugload/plugload/pkg/autoload"
	"github.com/plugload/plugload/pkg/nstree"
	"github.com/plugload/plugload/pkg/resolve"
)

type staticConfigProvider struct {
	cfg *config.Config
	err error
}

func (p staticConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.cfg, nil
}

// projectFixture writes a manifest with one explicit prefix and one tree and
// returns the manifest path.
func projectFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "lib", "Widget.php"), "<?php\n")
	testutil.MustWriteFile(t, filepath.Join(dir, "src", "models", "User.php"), "<?php\n")
	return testutil.MustWriteFile(t, filepath.Join(dir, "autoload.json"), `{
  "Namespaces": {
    "Vendor\\Lib": "lib",
    "ROOT": {"App": "src"}
  }
}`)
}

func runCLI(t *testing.T, provider ConfigProvider, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &out, Stderr: &errOut})
	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func defaultProvider() ConfigProvider {
	return staticConfigProvider{cfg: config.DefaultConfig()}
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-15T10:00:00Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-01-15T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestMapCommand(t *testing.T) {
	t.Parallel()

	manifestPath := projectFixture(t)
	out, _, err := runCLI(t, defaultProvider(), "map", "--manifest", manifestPath)
	if err != nil {
		t.Fatalf("map: %v", err)
	}

	for _, want := range []string{`Vendor\Lib\`, `App\`, `App\Models\`, filepath.Join(filepath.Dir(manifestPath), "lib")} {
		if !strings.Contains(out, want) {
			t.Errorf("map output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()

	manifestPath := projectFixture(t)
	base := filepath.Dir(manifestPath)

	out, _, err := runCLI(t, defaultProvider(), "resolve", "--manifest", manifestPath, `Vendor\Lib\Widget`, `\App\Models\User`)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, filepath.Join(base, "lib", "Widget.php")) {
		t.Errorf("output missing Widget.php:\n%s", out)
	}
	if !strings.Contains(out, filepath.Join(base, "src", "models", "User.php")) {
		t.Errorf("output missing User.php:\n%s", out)
	}
}

func TestResolveCommand_Unresolved(t *testing.T) {
	t.Parallel()

	manifestPath := projectFixture(t)
	out, _, err := runCLI(t, defaultProvider(), "resolve", "--manifest", manifestPath, `Vendor\Lib\Missing`)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("resolve error = %v, want ExitError code 1", err)
	}
	if !strings.Contains(out, `Vendor\Lib\Missing`) {
		t.Errorf("output missing unresolved name:\n%s", out)
	}
}

func TestExplainCommand(t *testing.T) {
	t.Parallel()

	manifestPath := projectFixture(t)
	out, _, err := runCLI(t, defaultProvider(), "explain", "--style", "notty", "--manifest", manifestPath, `App\Models\User`)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "Resolves to") {
		t.Errorf("explain output missing winner:\n%s", out)
	}
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	manifestPath := projectFixture(t)
	out, _, err := runCLI(t, defaultProvider(), "check", "--manifest", manifestPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "1 namespaces, 1 trees") {
		t.Errorf("check output = %q", out)
	}
}

func TestCheckCommand_MissingManifest(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "autoload.json")
	_, stderr, err := runCLI(t, defaultProvider(), "check", "--style", "notty", "--manifest", missing)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("check error = %v, want ExitError", err)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("check error = %v, want ServiceError in chain", err)
	}
	if got := classifyManifestError(svcErr.Err); got != svcErr.IssueID {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, got)
	}
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("stderr missing error line:\n%s", stderr)
	}
}

func TestCommand_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	provider := staticConfigProvider{err: errors.New("broken config")}
	_, stderr, err := runCLI(t, provider, "map", "--style", "notty")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(stderr, "broken config") {
		t.Errorf("stderr = %q, want config error", stderr)
	}
}

func TestGenerateCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustTree(t, dir, "models", "http/controllers", ".cache")

	out, _, err := runCLI(t, defaultProvider(), "generate", "App", dir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{`App\Models\`, `App\Http\Controllers\`} {
		if !strings.Contains(out, want) {
			t.Errorf("generate output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `.cache`) {
		t.Errorf("hidden directory mapped with skip_hidden on:\n%s", out)
	}
}

func TestGenerateCommand_InvalidNamespace(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, defaultProvider(), "generate", "--style", "notty", `\`, t.TempDir())
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("generate error = %v, want ExitError", err)
	}
}

func TestConfigPathCommand(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "custom.cue")
	out, _, err := runCLI(t, defaultProvider(), "config", "path", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q, want %q", out, cfgPath)
	}
}

func TestConfigShowCommand(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Extension = ".inc"
	out, _, err := runCLI(t, staticConfigProvider{cfg: cfg}, "config", "show", "--config", filepath.Join(t.TempDir(), "none.cue"))
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, `extension: ".inc"`) || !strings.Contains(out, "(using defaults)") {
		t.Errorf("config show output:\n%s", out)
	}
}

func TestWatchRoots(t *testing.T) {
	t.Parallel()

	manifestPath := projectFixture(t)
	base := filepath.Dir(manifestPath)
	s := &session{cfg: config.DefaultConfig(), manifest: manifestPath, logger: newLogger(&bytes.Buffer{}, config.LogLevelInfo, false)}

	loader, ok := installForTest(t, s)
	if !ok {
		t.Fatal("install failed")
	}
	t.Cleanup(func() { _ = loader.Close() })

	roots := watchRoots(loader)
	want := []string{base, filepath.Join(base, "src")}
	if len(roots) != len(want) || roots[0] != want[0] || roots[1] != want[1] {
		t.Errorf("watchRoots() = %v, want %v", roots, want)
	}
}

func TestExplainMarkdown(t *testing.T) {
	t.Parallel()

	attempts := []resolve.Attempt{
		{Prefix: `App\Models\`, File: "/src/models/User.php", Exists: false},
		{Prefix: `App\`, File: "/src/Models/User.php", Exists: true},
	}
	md := explainMarkdown(`App\Models\User`, attempts)
	if !strings.Contains(md, "| 2 | `App\\` | `/src/Models/User.php` | yes |") {
		t.Errorf("explainMarkdown() table = %q", md)
	}
	if !strings.Contains(md, "(candidate 2)") {
		t.Errorf("explainMarkdown() winner = %q", md)
	}

	md = explainMarkdown(`App\Models\User`, attempts[:1])
	if !strings.Contains(md, "**Unresolved:**") {
		t.Errorf("explainMarkdown() = %q, want unresolved", md)
	}
}

func TestExplainMarkdown_NoPrefix(t *testing.T) {
	t.Parallel()

	md := explainMarkdown(`\Nope\Thing`, nil)
	if !strings.Contains(md, "`Nope\\Thing`") || !strings.Contains(md, "No registered prefix") {
		t.Errorf("explainMarkdown() = %q", md)
	}
}

func TestNewLogger_Verbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogLevelError, true)
	logger.Debug("probe", "name", "X")
	if !strings.Contains(buf.String(), "probe") {
		t.Errorf("verbose logger dropped debug record: %q", buf.String())
	}
}

func installForTest(t *testing.T, s *session) (*autoload.Autoloader, bool) {
	t.Helper()
	return autoload.Install(t.Context(), autoload.NewChain(s.logger), s.manifest, s.autoloadOptions())
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rendered := &ExitError{Code: 1, Err: newServiceError(errors.New("bad manifest"), 0)}
	handleError(&buf, fang.Styles{}, rendered)
	if buf.Len() != 0 {
		t.Errorf("handleError printed an already rendered error: %q", buf.String())
	}

	handleError(&buf, fang.Styles{}, &ExitError{Code: 1, Err: errors.New("unresolved: A\\B")})
	if !strings.Contains(buf.String(), `unresolved: A\B`) {
		t.Errorf("handleError output = %q", buf.String())
	}
}

func TestPrintDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printDiagnostics(&buf, []nstree.Diagnostic{
		{Severity: nstree.SeverityError, Code: "directory_missing", Message: "cannot list src"},
		{Severity: nstree.SeverityWarning, Code: "directory_unmappable", Message: "skipping a\\b"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("printDiagnostics() wrote %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "directory_missing") || !strings.Contains(lines[0], "cannot list src") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "directory_unmappable") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

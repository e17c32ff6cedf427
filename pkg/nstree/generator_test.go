// SPDX-License-Identifier: MPL-2.0

package nstree

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/plugload/plugload/internal/testutil"
	"github.com/plugload/plugload/pkg/nsmap"
	"github.com/plugload/plugload/pkg/types"
)

func TestGenerate_MirrorsTree(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "root")
	testutil.MustTree(t, root, "services/billing")

	reg := nsmap.New()
	if _, err := New(reg).Generate("App", types.FilesystemPath(root)); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want := map[types.NamespacePrefix]string{
		`App\`:                  root,
		`App\Services\`:         filepath.Join(root, "services"),
		`App\Services\Billing\`: filepath.Join(root, "services", "billing"),
	}
	for prefix, dir := range want {
		got := reg.Lookup(prefix)
		if !slices.Contains(got, types.FilesystemPath(dir)) {
			t.Errorf("Lookup(%q) = %v, want it to contain %q", prefix, got, dir)
		}
	}
	if reg.Len() != len(want) {
		t.Errorf("Len() = %d, want %d (prefixes: %v)", reg.Len(), len(want), reg.Prefixes())
	}
}

func TestGenerate_DepthFirstLexicalOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustTree(t, root, "b/y", "a/z", "a/x", "c")

	res, err := New(nsmap.New()).Generate(`Lib\`, types.FilesystemPath(root))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	var got []types.NamespacePrefix
	for _, m := range res.Mappings {
		got = append(got, m.Prefix)
	}
	want := []types.NamespacePrefix{
		`Lib\`,
		`Lib\A\`, `Lib\A\X\`, `Lib\A\Z\`,
		`Lib\B\`, `Lib\B\Y\`,
		`Lib\C\`,
	}
	if !slices.Equal(got, want) {
		t.Errorf("mapping order = %v, want %v", got, want)
	}
}

func TestGenerate_EmptyRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	reg := nsmap.New()

	res, err := New(reg).Generate("App", types.FilesystemPath(root+string(filepath.Separator)))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(res.Mappings) != 1 || reg.Len() != 1 {
		t.Fatalf("mappings = %+v, want only the root", res.Mappings)
	}
	if got := reg.Lookup(`App\`); !slices.Equal(got, []types.FilesystemPath{types.FilesystemPath(root)}) {
		t.Errorf("Lookup(App) = %v, want [%s]", got, root)
	}
}

func TestGenerate_SkipsFilesAndHiddenDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustTree(t, root, ".git/objects", "src")
	testutil.MustWriteFile(t, filepath.Join(root, "README.md"), "readme")
	testutil.MustWriteFile(t, filepath.Join(root, "src", "Kernel.php"), "<?php")

	reg := nsmap.New()
	if _, err := New(reg).Generate("App", types.FilesystemPath(root)); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want := []types.NamespacePrefix{`App\`, `App\Src\`}
	if got := reg.Prefixes(); !slices.Equal(got, want) {
		t.Errorf("Prefixes() = %v, want %v", got, want)
	}
}

func TestGenerate_IncludeHidden(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustTree(t, root, ".config")

	reg := nsmap.New()
	if _, err := New(reg, WithSkipHidden(false)).Generate("App", types.FilesystemPath(root)); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !reg.Has(`App\.config\`) {
		t.Errorf("Prefixes() = %v, want hidden directory mapped", reg.Prefixes())
	}
}

func TestGenerate_IgnorePatterns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustTree(t, root, "src/tests/unit", "src/models", "vendor/acme")

	reg := nsmap.New()
	g := New(reg, WithIgnore("**/tests", "vendor/**"))
	if _, err := g.Generate("App", types.FilesystemPath(root)); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want := []types.NamespacePrefix{`App\`, `App\Src\`, `App\Src\Models\`}
	if got := reg.Prefixes(); !slices.Equal(got, want) {
		t.Errorf("Prefixes() = %v, want %v", got, want)
	}
}

func TestGenerate_InvalidIgnorePattern(t *testing.T) {
	t.Parallel()

	reg := nsmap.New()
	if _, err := New(reg, WithIgnore("[")).Generate("App", "/srv"); err == nil {
		t.Fatal("Generate() error = nil, want invalid pattern error")
	}
	if reg.Len() != 0 {
		t.Errorf("registry modified on error: %v", reg.Prefixes())
	}
}

func TestGenerate_InvalidRootNamespace(t *testing.T) {
	t.Parallel()

	_, err := New(nsmap.New()).Generate(`\\`, "/srv")
	if !errors.Is(err, types.ErrInvalidNamespacePrefix) {
		t.Errorf("Generate() error = %v, want ErrInvalidNamespacePrefix", err)
	}
}

func TestGenerate_MissingRootStillRegistersRoot(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope")
	reg := nsmap.New()

	res, err := New(reg).Generate("App", types.FilesystemPath(missing))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !reg.Has(`App\`) {
		t.Error("root prefix not registered")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != "directory_missing" {
		t.Fatalf("Diagnostics = %+v, want one directory_missing", res.Diagnostics)
	}
	if res.Diagnostics[0].Severity != SeverityError {
		t.Errorf("Severity = %q, want %q", res.Diagnostics[0].Severity, SeverityError)
	}
}

func TestGenerate_ReservedNameIsMappedWithDiagnostic(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("reserved device names cannot be created on Windows")
	}

	root := t.TempDir()
	testutil.MustTree(t, root, "aux")
	reg := nsmap.New()

	res, err := New(reg).Generate("App", types.FilesystemPath(root))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !reg.Has(`App\Aux\`) {
		t.Errorf("reserved directory not mapped, prefixes: %v", reg.Prefixes())
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != "directory_reserved_name" {
		t.Errorf("Diagnostics = %+v, want one directory_reserved_name", res.Diagnostics)
	}
}

func TestGenerate_UnreadableDirectoryIsDiagnostic(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	root := t.TempDir()
	testutil.MustTree(t, root, "locked/inner", "open")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	reg := nsmap.New()
	res, err := New(reg).Generate("App", types.FilesystemPath(root))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !reg.Has(`App\Locked\`) || !reg.Has(`App\Open\`) {
		t.Errorf("Prefixes() = %v, want locked and open mapped", reg.Prefixes())
	}
	if reg.Has(`App\Locked\Inner\`) {
		t.Error("descended into unreadable directory")
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != "directory_unreadable" {
		t.Fatalf("Diagnostics = %+v", res.Diagnostics)
	}
	if res.Diagnostics[0].Severity != SeverityWarning {
		t.Errorf("Severity = %q, want %q", res.Diagnostics[0].Severity, SeverityWarning)
	}
}

func TestGenerate_DoesNotFollowSymlinks(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	root := t.TempDir()
	testutil.MustTree(t, root, "real")
	if err := os.Symlink(root, filepath.Join(root, "real", "loop")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	reg := nsmap.New()
	if _, err := New(reg).Generate("App", types.FilesystemPath(root)); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if reg.Has(`App\Real\Loop\`) {
		t.Error("symlinked directory was descended")
	}
}

func TestGenerate_TwiceNeverLosesMappings(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MustTree(t, root, "services/billing", "models")

	reg := nsmap.New()
	g := New(reg)
	first, err := g.Generate("App", types.FilesystemPath(root))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := g.Generate("App", types.FilesystemPath(root)); err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}

	for _, m := range first.Mappings {
		dirs := reg.Lookup(m.Prefix)
		if !slices.Contains(dirs, m.Directory) {
			t.Errorf("Lookup(%q) = %v lost %q", m.Prefix, dirs, m.Directory)
		}
		if len(dirs) != 2 {
			t.Errorf("Lookup(%q) = %v, want directory registered twice", m.Prefix, dirs)
		}
	}
}

func TestCapitalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"services":  "Services",
		"Services":  "Services",
		"2fa":       "2fa",
		"_internal": "_internal",
		"élan":      "élan",
		"a":         "A",
		"":          "",
	}
	for in, want := range tests {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

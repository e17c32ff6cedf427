// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/plugload/plugload/pkg/nsmap"
	"github.com/plugload/plugload/pkg/types"
)

// TestResolve_PriorityProperty checks resolution against a model: candidates
// ordered by prefix length (longest first) and then by registration order; the
// first existing candidate wins.
func TestResolve_PriorityProperty(t *testing.T) {
	t.Parallel()

	segment := rapid.StringMatching(`[A-Z][a-z]{0,4}`)

	rapid.Check(t, func(rt *rapid.T) {
		segs := rapid.SliceOfN(segment, 2, 5).Draw(rt, "segments")
		depth := len(segs)

		reg := nsmap.New()
		dirsByLen := make([][]string, depth)
		for l := 1; l < depth; l++ {
			n := rapid.IntRange(0, 3).Draw(rt, fmt.Sprintf("dirs%d", l))
			for i := range n {
				dir := fmt.Sprintf("/p%d/d%d", l, i)
				reg.Register(strings.Join(segs[:l], `\`), types.FilesystemPath(dir), false)
				dirsByLen[l] = append(dirsByLen[l], dir)
			}
		}

		existing := make(map[types.FilesystemPath]bool)
		var want types.FilesystemPath
		for l := depth - 1; l >= 1; l-- {
			for _, dir := range dirsByLen[l] {
				file := types.FilesystemPath(filepath.Join(append([]string{dir}, segs[l:]...)...) + ".php")
				if rapid.Bool().Draw(rt, "exists") {
					existing[file] = true
					if want == "" {
						want = file
					}
				}
			}
		}

		r := New(reg, WithProber(ProberFunc(func(p types.FilesystemPath) bool { return existing[p] })))
		res, ok := r.Resolve(types.QualifiedName(strings.Join(segs, `\`)))

		if want == "" {
			if ok {
				rt.Fatalf("Resolve() = %q, want not found", res.File)
			}
			return
		}
		if !ok || res.File != want {
			rt.Fatalf("Resolve() = %q (ok=%v), want %q", res.File, ok, want)
		}
	})
}

package overlay_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedllama/reoverlay/internal/manifest"
	"github.com/embeddedllama/reoverlay/pkg/errors"
	"github.com/embeddedllama/reoverlay/pkg/logging"
	"github.com/embeddedllama/reoverlay/pkg/overlay"
)

const upstreamReadme = "# llama.cpp\n" +
	"\n" +
	"![llama](https://user-images.githubusercontent.com/llama.png)\n" +
	"\n" +
	"Inference of Meta's LLaMA model (and others) in pure C/C++\n"

const upstreamCMake = "llama_add_compile_flags()\n" +
	"\n" +
	"if (NOT GGML_BACKEND_DL)\n" +
	"    add_subdirectory(gguf-split)\n" +
	"    add_subdirectory(quantize)\n" +
	"endif()\n" +
	"\n" +
	"if (LLAMA_BUILD_SERVER)\n" +
	"    if (NOT WIN32)\n" +
	"        add_subdirectory(server)\n" +
	"    endif()\n" +
	"endif()\n"

const upstreamWorkflow = "name: Release\n" +
	"\n" +
	"env:\n" +
	"  BRANCH_NAME: ${{ github.head_ref || github.ref_name }}\n" +
	"\n" +
	"jobs:\n" +
	"  macOS-arm64:\n" +
	"    runs-on: macos-latest\n" +
	"    strategy:\n" +
	"      matrix:\n" +
	"        include:\n" +
	"          - build: 'arm64'\n" +
	"            os: macos-latest\n" +
	"          - build: 'ios-xcode'\n" +
	"            os: macos-latest\n" +
	"\n" +
	"  release:\n" +
	"    if: ${{ github.event_name == 'push' }}\n" +
	"    runs-on: ubuntu-latest\n" +
	"    needs:\n" +
	"      - ubuntu-22-cpu\n" +
	"      - windows-cuda\n" +
	"      - macOS-arm64\n" +
	"      - windows-cpu\n" +
	"\n" +
	"    steps:\n" +
	"      - name: Publish release\n" +
	"        run: echo publishing\n"

// writeUpstream lays out a freshly re-synced upstream tree in a temp dir.
func writeUpstream(t *testing.T, withWorkflow bool) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "tools"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(upstreamReadme), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tools", "CMakeLists.txt"), []byte(upstreamCMake), 0o644))

	if withWorkflow {
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".github", "workflows"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".github", "workflows", "release.yml"), []byte(upstreamWorkflow), 0o644))
	}
	return root
}

func readFile(t *testing.T, root string, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{root}, parts...)...))
	require.NoError(t, err)
	return string(data)
}

func newRunner(root string, opts ...overlay.Option) *overlay.Runner {
	opts = append(opts, overlay.WithLogger(logging.NewNopLogger()))
	return overlay.New(root, manifest.Default().Overlays(), opts...)
}

func TestRunnerReappliesDefaultOverlays(t *testing.T) {
	root := writeUpstream(t, true)

	report, err := newRunner(root).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"README.md (banner)",
		"tools/CMakeLists.txt (embedded-cli hook)",
		".github/workflows/release.yml (release needs)",
		".github/workflows/release.yml (release defaults)",
	}, report.Changed)
	assert.Equal(t, "Reapplied overlays: README.md (banner), tools/CMakeLists.txt (embedded-cli hook), "+
		".github/workflows/release.yml (release needs), .github/workflows/release.yml (release defaults)",
		report.Summary())

	g := goldie.New(t)
	g.Assert(t, "readme_reconciled", []byte(readFile(t, root, "README.md")))
	g.Assert(t, "cmake_reconciled", []byte(readFile(t, root, "tools", "CMakeLists.txt")))
	g.Assert(t, "workflow_reconciled", []byte(readFile(t, root, ".github", "workflows", "release.yml")))
}

func TestRunnerIdempotent(t *testing.T) {
	root := writeUpstream(t, true)

	_, err := newRunner(root).Run()
	require.NoError(t, err)

	readme := readFile(t, root, "README.md")
	cmake := readFile(t, root, "tools", "CMakeLists.txt")
	workflow := readFile(t, root, ".github", "workflows", "release.yml")

	report, err := newRunner(root).Run()
	require.NoError(t, err)

	assert.False(t, report.HasChanges())
	assert.Equal(t, "Nothing to reapply; overlays already present.", report.Summary())
	assert.Equal(t, readme, readFile(t, root, "README.md"))
	assert.Equal(t, cmake, readFile(t, root, "tools", "CMakeLists.txt"))
	assert.Equal(t, workflow, readFile(t, root, ".github", "workflows", "release.yml"))
}

func TestRunnerOptionalWorkflowAbsent(t *testing.T) {
	root := writeUpstream(t, false)

	report, err := newRunner(root).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"README.md (banner)",
		"tools/CMakeLists.txt (embedded-cli hook)",
	}, report.Changed)
	for _, label := range report.Changed {
		assert.NotContains(t, label, "release.yml")
	}
}

func TestRunnerDryRun(t *testing.T) {
	root := writeUpstream(t, true)

	report, err := newRunner(root, overlay.WithDryRun()).Run()
	require.NoError(t, err)

	assert.True(t, report.HasChanges())
	assert.Equal(t, upstreamReadme, readFile(t, root, "README.md"))
	assert.Equal(t, upstreamCMake, readFile(t, root, "tools", "CMakeLists.txt"))
	assert.Equal(t, upstreamWorkflow, readFile(t, root, ".github", "workflows", "release.yml"))
}

func TestRunnerFailFastWritesNothing(t *testing.T) {
	root := writeUpstream(t, true)
	mangled := "# some other readme entirely\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(mangled), 0o644))

	report, err := newRunner(root).Run()
	require.Error(t, err)
	assert.True(t, errors.IsShapeUnrecognized(err))
	assert.Nil(t, report)

	// Nothing was written, not even targets later in the fixed order.
	assert.Equal(t, mangled, readFile(t, root, "README.md"))
	assert.Equal(t, upstreamCMake, readFile(t, root, "tools", "CMakeLists.txt"))
	assert.Equal(t, upstreamWorkflow, readFile(t, root, ".github", "workflows", "release.yml"))
}

func TestRunnerMissingRequiredTarget(t *testing.T) {
	root := writeUpstream(t, false)
	require.NoError(t, os.Remove(filepath.Join(root, "tools", "CMakeLists.txt")))

	_, err := newRunner(root).Run()
	require.Error(t, err)
	assert.ErrorContains(t, err, "CMakeLists.txt")
}

func TestRunnerUpstreamDriftInWorkflow(t *testing.T) {
	root := writeUpstream(t, true)
	// Upstream renamed the needs block; the structural marker is gone.
	drifted := "name: Release\n\nenv:\n  BRANCH_NAME: ${{ github.head_ref || github.ref_name }}\n\njobs:\n  release:\n    runs-on: ubuntu-latest\n\n    steps: []\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".github", "workflows", "release.yml"), []byte(drifted), 0o644))

	_, err := newRunner(root).Run()
	require.Error(t, err)
	assert.True(t, errors.IsMarkerMissing(err))
	// The run halted, but the earlier targets were already persisted; the
	// workflow itself is untouched.
	assert.Equal(t, drifted, readFile(t, root, ".github", "workflows", "release.yml"))
}

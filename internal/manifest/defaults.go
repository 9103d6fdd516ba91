package manifest

// The embedded-llama overlay set. These literals are the fork's deltas over
// upstream llama.cpp; anchors are exact upstream text and must be updated in
// lockstep with upstream renames.

// readmeBanner is prepended to the upstream README exactly once. The trailing
// rule and blank line separate it from the original content.
const readmeBanner = "# embedded-llama overlay\n" +
	"\n" +
	"This fork keeps upstream `llama.cpp` intact and adds an embedded, no-HTTP CLI (`llama-embedded-cli`) so chat, completion, embeddings, rerank, tokenize, etc. can run in-process without starting `llama-server`. The original upstream README begins below for reference.\n" +
	"\n" +
	"---\n" +
	"\n"

// readmeOriginalPrefix identifies the unmodified upstream README.
const readmeOriginalPrefix = "# llama.cpp"

const (
	cmakeHookMarker = "add_subdirectory(embedded-cli)"
	cmakeHookNeedle = "add_subdirectory(server)"
)

// Workflow anchors for the release defaults overlay.
const (
	workflowEnvMarker = "LLAMA_EMBEDDED_CLI"
	workflowEnvNeedle = "env:\n  BRANCH_NAME: ${{ github.head_ref || github.ref_name }}\n"

	// The fork does not ship iOS release artifacts; the upstream matrix
	// entry is removed when present.
	workflowIOSEntry = "          - build: 'ios-xcode'\n            os: macos-latest\n"
)

// releaseNeeds is the canonical ordered sequence of jobs the release step
// must wait on. Order is significant; the embedded-cli smoke job gates the
// release last.
var releaseNeeds = []string{
	"ubuntu-22-cpu",
	"macOS-arm64",
	"windows-cpu",
	"windows-cuda",
	"embedded-cli-smoke",
}

// Default returns the built-in overlay set for the embedded-llama fork.
func Default() *Manifest {
	return &Manifest{
		Targets: []TargetSpec{
			{
				Path: "README.md",
				Banner: &BannerSpec{
					Label:          "banner",
					Text:           readmeBanner,
					OriginalPrefix: readmeOriginalPrefix,
				},
			},
			{
				Path: "tools/CMakeLists.txt",
				Edits: []EditsSpec{
					{
						Label: "embedded-cli hook",
						Edits: []EditSpec{
							{
								Marker:      cmakeHookMarker,
								Needle:      cmakeHookNeedle,
								Replacement: cmakeHookNeedle + "\n        " + cmakeHookMarker,
							},
						},
					},
				},
			},
			{
				Path:     ".github/workflows/release.yml",
				Optional: true,
				Lists: []ListSpec{
					{
						Label:      "release needs",
						Marker:     "    needs:\n",
						ItemPrefix: "      - ",
						Items:      releaseNeeds,
					},
				},
				Edits: []EditsSpec{
					{
						Label: "release defaults",
						Edits: []EditSpec{
							{
								Marker:      workflowEnvMarker,
								Needle:      workflowEnvNeedle,
								Replacement: workflowEnvNeedle + "  LLAMA_EMBEDDED_CLI: ON\n",
							},
							{
								Needle:   workflowIOSEntry,
								Optional: true,
							},
						},
					},
				},
			},
		},
	}
}

package overlay

import (
	"strings"
	"testing"

	"github.com/embeddedllama/reoverlay/pkg/errors"
)

const testBanner = "# fork overlay\n\nSee below for the upstream README.\n\n---\n\n"

func newTestBanner() *Banner {
	return NewBanner("banner", testBanner, "# llama.cpp")
}

func TestBannerClassify(t *testing.T) {
	b := newTestBanner()

	tests := []struct {
		name string
		doc  string
		want State
	}{
		{
			name: "original upstream form",
			doc:  "# llama.cpp\n\nInference of LLaMA models\n",
			want: StateOriginal,
		},
		{
			name: "already reconciled",
			doc:  testBanner + "# llama.cpp\n\nInference of LLaMA models\n",
			want: StateReconciled,
		},
		{
			name: "unrecognized shape",
			doc:  "# some other project\n",
			want: StateUnknown,
		},
		{
			name: "empty document",
			doc:  "",
			want: StateUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Classify(tt.doc); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBannerApplyOriginal(t *testing.T) {
	b := newTestBanner()
	original := "# llama.cpp\n\nInference of LLaMA models in C/C++\n"

	out, changed, err := b.Apply(original)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !changed {
		t.Fatal("Apply() changed = false, want true")
	}
	if !strings.HasPrefix(out, testBanner) {
		t.Errorf("Apply() output does not start with the banner")
	}
	if !strings.HasSuffix(out, original) {
		t.Errorf("Apply() did not preserve the original content after the banner")
	}
}

func TestBannerApplyIdempotent(t *testing.T) {
	b := newTestBanner()
	original := "# llama.cpp\n\nInference of LLaMA models\n"

	once, changed, err := b.Apply(original)
	if err != nil || !changed {
		t.Fatalf("first Apply() = (changed=%v, err=%v), want (true, nil)", changed, err)
	}

	twice, changed, err := b.Apply(once)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if changed {
		t.Error("second Apply() changed = true, want false")
	}
	if twice != once {
		t.Error("second Apply() altered an already reconciled document")
	}
}

func TestBannerApplyUnknownShape(t *testing.T) {
	b := newTestBanner()
	doc := "THIS IS NOT THE README YOU WERE LOOKING FOR, and it rambles on for a while\n"

	out, changed, err := b.Apply(doc)
	if !errors.IsShapeUnrecognized(err) {
		t.Fatalf("Apply() error = %v, want ErrShapeUnrecognized", err)
	}
	if changed {
		t.Error("Apply() changed = true on error, want false")
	}
	if out != doc {
		t.Error("Apply() mutated the document on error")
	}
	// The diagnostic carries a short prefix of the offending content.
	if !strings.Contains(err.Error(), "THIS IS NOT") {
		t.Errorf("error %q does not include a diagnostic prefix", err)
	}
	if strings.Contains(err.Error(), "rambles") {
		t.Errorf("error %q includes more than the diagnostic prefix", err)
	}
}

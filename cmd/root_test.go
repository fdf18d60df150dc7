package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/detentsh/driver/internal/executor"
	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/option"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name  string
		argv0 string
		args  []string
		want  []string
	}{
		{
			name:  "swiftc suffix selects compile",
			argv0: "/usr/local/bin/swiftc",
			args:  []string{"a.swift", "-o", "prog"},
			want:  []string{"compile", "a.swift", "-o", "prog"},
		},
		{
			name:  "autolink-extract suffix wins over swift",
			argv0: "swift-autolink-extract",
			args:  []string{"a.o"},
			want:  []string{"autolink-extract", "a.o"},
		},
		{
			name:  "modulewrap suffix",
			argv0: "/opt/swift-modulewrap",
			args:  []string{"m.swiftmodule"},
			want:  []string{"module-wrap", "m.swiftmodule"},
		},
		{
			name:  "windows exe suffix is stripped first",
			argv0: `C:\tools\swiftc.exe`,
			args:  []string{"a.swift"},
			want:  []string{"compile", "a.swift"},
		},
		{
			name:  "driver-mode flag overrides argv0",
			argv0: "swiftc",
			args:  []string{"--driver-mode=swift-indent", "a.swift"},
			want:  []string{"indent", "a.swift"},
		},
		{
			name:  "frontend marker",
			argv0: "swift",
			args:  []string{"-frontend", "-c", "a.swift"},
			want:  []string{"frontend", "-c", "a.swift"},
		},
		{
			name:  "plain invocation passes through",
			argv0: "swift-driver",
			args:  []string{"compile", "a.swift"},
			want:  []string{"compile", "a.swift"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeArgs(tt.argv0, tt.args)
			if len(got) != len(tt.want) {
				t.Fatalf("normalizeArgs(%q, %v) = %v, want %v", tt.argv0, tt.args, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("normalizeArgs(%q, %v)[%d] = %q, want %q", tt.argv0, tt.args, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	jobErr := &executor.JobFailure{Job: &job.Job{DisplayName: "compile"}, Err: errors.New("exit 1")}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil is success", nil, 0},
		{"job failure is 1", jobErr, 1},
		{"wrapped job failure is 1", fmt.Errorf("build: %w", jobErr), 1},
		{"input modified is 1", &executor.InputUnexpectedlyModifiedError{Paths: []string{"a.swift"}}, 1},
		{"unknown option is 2", &option.UnknownOptionError{Token: "-bogus"}, 2},
		{"arbitrary error is 2", errors.New("boom"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestRunCompileHelpShortCircuits(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := runCompile(context.Background(), []string{"-help"}, &out, &errOut); err != nil {
		t.Fatalf("runCompile(-help): %v", err)
	}
	if !strings.Contains(out.String(), "-emit-module") {
		t.Errorf("help output missing -emit-module:\n%s", out.String())
	}
	if strings.Contains(out.String(), "-driver-batch-count") {
		t.Errorf("help output leaked a hidden option:\n%s", out.String())
	}
}

func TestRunCompileHelpHiddenIncludesHiddenOptions(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := runCompile(context.Background(), []string{"-help-hidden"}, &out, &errOut); err != nil {
		t.Fatalf("runCompile(-help-hidden): %v", err)
	}
	if !strings.Contains(out.String(), "-driver-batch-count") {
		t.Errorf("hidden help output missing -driver-batch-count:\n%s", out.String())
	}
}

func TestRunCompileRejectsUnknownOption(t *testing.T) {
	var out, errOut bytes.Buffer
	err := runCompile(context.Background(), []string{"-definitely-not-an-option"}, &out, &errOut)
	var unknown *option.UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("runCompile = %v, want UnknownOptionError", err)
	}
	if ExitCode(err) != 2 {
		t.Errorf("ExitCode = %d, want 2", ExitCode(err))
	}
}

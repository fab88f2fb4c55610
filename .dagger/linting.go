package main

import (
	"context"
	"fmt"

	"dagger/zakops/internal/dagger"
)

const golangciLintVersion = "v2.8.0"

// lintOpts returns the common GolangcilintOpts used by both CheckLint and FixLint.
// It layers golangci-lint on top of goContainer() so the Go caches are already
// in place.
func (z *Zakops) lintOpts() dagger.GolangcilintOpts {
	base := z.goContainer().
		WithExec([]string{
			"go",
			"install",
			fmt.Sprintf("github.com/golangci/golangci-lint/v2/cmd/golangci-lint@%s", golangciLintVersion),
		})

	return dagger.GolangcilintOpts{
		BaseCtr: base,
		Config:  z.Source.File(".golangci.yml"),
	}
}

// CheckLint runs golangci-lint against the zakops source code without applying fixes.
func (z *Zakops) CheckLint(ctx context.Context) (string, error) {
	return dag.Golangcilint(z.Source, z.lintOpts()).Check(ctx)
}

// FixLint runs golangci-lint against the zakops source code with --fix, applying
// automatic fixes where possible, and returns the modified source directory.
func (z *Zakops) FixLint(ctx context.Context) *dagger.Directory {
	return dag.Golangcilint(z.Source, z.lintOpts()).Lint()
}

// ZakOps CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/zakops/internal/dagger"
)

// Zakops is the main module for the ZakOps CI/CD pipeline
type Zakops struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Zakops CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Zakops {
	return &Zakops{
		Source: source,
	}
}

// goContainer returns an Alpine-based Go container with the project source
// mounted and module caches in place.
//
// It is the shared foundation for tests, builds, and linting.
func (z *Zakops) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("GOEXPERIMENT", "jsonv2").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", z.Source)
}

// Test runs the zakops unit tests via "go test"
func (z *Zakops) Test(ctx context.Context) (string, error) {
	return z.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}

//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build the binary.
var Default = Build

// Build compiles the cdiag binary into bin/.
func Build() error {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	ldflags := fmt.Sprintf(
		"-X github.com/muraak/cdiag/internal/version.Version=%s -X github.com/muraak/cdiag/internal/version.CommitHash=%s",
		version, commit,
	)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", "bin/cdiag", "./cmd/cdiag")
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Coverage runs tests with coverage and prints the per-function report.
func Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Lint runs go vet and, when installed, staticcheck.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	if err := sh.RunV("staticcheck", "./..."); err != nil {
		fmt.Println("staticcheck not available or failed (install: go install honnef.co/go/tools/cmd/staticcheck@latest)")
		return err
	}
	return nil
}

// QA runs lint and tests.
func QA() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}

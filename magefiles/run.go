//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Compiles the shaders and runs the engine.
func (Run) Engine() error {
	if err := buildShaders(); err != nil {
		return err
	}
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", "main.go"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the test suite.
func (Run) Tests() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests that need no window nor GPU.
func (Run) UnitTests() error {
	packages := []string{
		"./engine/core/...",
		"./engine/geometry/...",
		"./engine/assets/...",
		"./engine/renderer/barrier/...",
		"./engine/renderer/frame/...",
		"./engine/renderer/metadata/...",
		"./engine/renderer/mipmap/...",
	}
	if _, err := executeCmd("go", withArgs(append([]string{"test"}, packages...)...), withStream()); err != nil {
		return err
	}
	return nil
}

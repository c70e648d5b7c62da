package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/getmockd/mockrunner/pkg/cli"
)

// TestMain lets testscript run the CLI in-process as the mockrunner command.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"mockrunner": cli.Run,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			// keep the environment of the developer out of the scripts
			env.Setenv("MOCKRUNNER_CONFIG", "")
			env.Setenv("MOCKRUNNER_LOG_LEVEL", "")
			return nil
		},
	})
}

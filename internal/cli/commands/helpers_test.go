package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapview/internal/adapter"
	"github.com/leapstack-labs/leapview/internal/cli/config"
	clitestutil "github.com/leapstack-labs/leapview/internal/cli/testutil"
	"github.com/leapstack-labs/leapview/internal/notifier"
	"github.com/leapstack-labs/leapview/internal/session"
	"github.com/leapstack-labs/leapview/internal/testutil"
)

// loadTestConfig loads the configuration the way the root command does,
// from flags given as command-line arguments.
func loadTestConfig(t *testing.T, args ...string) *config.Config {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringP("data-dir", "d", "", "")
	fs.String("database", "", "")
	fs.Int("max-rows", config.DefaultMaxRows, "")
	fs.Bool("detect-changes", false, "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", "", "")
	require.NoError(t, fs.Parse(args))

	t.Cleanup(config.ResetConfig)
	cfg, err := config.LoadConfig("", fs)
	require.NoError(t, err)
	return cfg
}

// runCommand executes cmd with args, as the root command would, and returns
// what it wrote to stdout and stderr.
func runCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	cmd.SetArgs(args)
	// the root command silences these for every subcommand
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// newTestCommandContext wires an in-memory session to a text renderer
// whose output is captured.
func newTestCommandContext(t *testing.T) (*CommandContext, *clitestutil.TestRenderer) {
	t.Helper()

	sess, err := session.Open(context.Background(),
		adapter.Config{Type: "duckdb", Path: config.MemoryDatabase},
		session.Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	tr := clitestutil.NewTestRendererText()
	cc := &CommandContext{
		Cfg:      config.Default(),
		Logger:   testutil.NewTestLogger(t),
		Session:  sess,
		Renderer: tr.Renderer,
	}
	unsubscribe := sess.Subscribe(notifier.Funcs{OnError: cc.reportError})
	t.Cleanup(unsubscribe)
	return cc, tr
}

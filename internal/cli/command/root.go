package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kvshard/kvshard/internal/cli/connection"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "kvshard-cli",
		Usage:   "kvshardd command-line client",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			GetCommand(),
			SetCommand(),
			SetExCommand(),
			DelCommand(),
			ExistsCommand(),
			ExpireCommand(),
			TTLCommand(),
		},
		Before: func(c *cli.Context) error {
			mgr := connection.NewManager()
			mgr.Connect(&connection.Connection{Server: c.String("server")})
			c.App.Metadata["connMgr"] = mgr
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "kvshardd server address (e.g., localhost:3000)",
			EnvVars: []string{"KVSHARD_SERVER"},
			Value:   "localhost:3000",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
	}
}

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	Server string
	Output string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server: c.String("server"),
		Output: c.String("output"),
	}
}

// client dials the configured server fresh for a single command. The
// protocol has no session state worth keeping open across CLI
// invocations, so each command is a dial-execute-close round trip.
func client(c *cli.Context) *connection.TCPClient {
	flags := ParseGlobalFlags(c)
	return connection.NewTCPClient(flags.Server)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kvshard/kvshard/internal/cli/output"
)

// reply is the formattable result of a single command.
type reply struct {
	Value string `json:"reply"`
}

// execute sends a single line-protocol command and prints the reply
// through the formatter selected by --output, or returns the
// dial/write/read error.
func execute(c *cli.Context, line string) error {
	cl := client(c)
	defer cl.Close()

	line0, err := cl.Execute(line)
	if err != nil {
		PrintError("%v", err)
		return err
	}

	r := reply{Value: strings.TrimRight(line0, "\n")}
	formatter := output.NewFormatter(output.Format(ParseGlobalFlags(c).Output), false)
	return formatter.Format(os.Stdout, r)
}

// PingCommand sends PING.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check server liveness",
		Action: func(c *cli.Context) error {
			return execute(c, "PING")
		},
	}
}

// GetCommand sends GET.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get a key's value",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: kvshard-cli get KEY")
			}
			return execute(c, "GET "+c.Args().Get(0))
		},
	}
}

// SetCommand sends SET.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a key's value",
		ArgsUsage: "KEY VALUE",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("usage: kvshard-cli set KEY VALUE")
			}
			return execute(c, fmt.Sprintf("SET %s %s", c.Args().Get(0), c.Args().Get(1)))
		},
	}
}

// SetExCommand sends SETEX.
func SetExCommand() *cli.Command {
	return &cli.Command{
		Name:      "setex",
		Usage:     "Set a key's value with a TTL in seconds",
		ArgsUsage: "KEY VALUE TTL_SECONDS",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 3 {
				return fmt.Errorf("usage: kvshard-cli setex KEY VALUE TTL_SECONDS")
			}
			return execute(c, fmt.Sprintf("SETEX %s %s %s", c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)))
		},
	}
}

// DelCommand sends DEL.
func DelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Usage:     "Delete a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: kvshard-cli del KEY")
			}
			return execute(c, "DEL "+c.Args().Get(0))
		},
	}
}

// ExistsCommand sends EX.
func ExistsCommand() *cli.Command {
	return &cli.Command{
		Name:      "exists",
		Aliases:   []string{"ex"},
		Usage:     "Check whether a key exists, without triggering lazy expiry",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: kvshard-cli exists KEY")
			}
			return execute(c, "EX "+c.Args().Get(0))
		},
	}
}

// ExpireCommand sends EXPIRE.
func ExpireCommand() *cli.Command {
	return &cli.Command{
		Name:      "expire",
		Usage:     "Set a TTL in seconds on an existing key",
		ArgsUsage: "KEY TTL_SECONDS",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("usage: kvshard-cli expire KEY TTL_SECONDS")
			}
			return execute(c, fmt.Sprintf("EXPIRE %s %s", c.Args().Get(0), c.Args().Get(1)))
		},
	}
}

// TTLCommand sends TTL.
func TTLCommand() *cli.Command {
	return &cli.Command{
		Name:      "ttl",
		Usage:     "Get a key's remaining TTL in seconds",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: kvshard-cli ttl KEY")
			}
			return execute(c, "TTL "+c.Args().Get(0))
		},
	}
}

package cli

import (
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func (a *App) generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate additional documentation and/or completions",
		Subcommands: []*cli.Command{
			{
				Name:      "shell",
				Usage:     "generate shell completions for the given shell to stdout",
				ArgsUsage: "SHELL",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected exactly one SHELL argument (bash, zsh, or fish)")
					}
					script, err := completionScript(a.Command(), c.Args().Get(0))
					if err != nil {
						return err
					}
					_, err = io.WriteString(a.Stdout, script)
					return err
				},
			},
			{
				Name:  "man",
				Usage: "generate man pages to the output directory if specified, else the current directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "the output directory to write the man pages",
					},
				},
				Action: func(c *cli.Context) error {
					dir := c.String("output-dir")
					if dir == "" {
						wd, err := os.Getwd()
						if err != nil {
							return err
						}
						dir = wd
					}
					return a.generateManPages(dir)
				},
			},
		},
	}
}

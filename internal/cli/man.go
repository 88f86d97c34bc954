package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/urfave/cli/v2"
)

// manTemplate renders one roff man page per command.
var manTemplate = template.Must(template.New("man").Parse(
	`.TH "{{.UpperName}}" "1" "" "jg {{.Version}}" "{{.Title}} Manual"
.SH NAME
{{.DashName}} \- {{.Usage}}
.SH SYNOPSIS
.B {{.DashName}}
{{.Synopsis}}
.SH DESCRIPTION
{{.Usage}}.
{{- if .Flags}}
.SH OPTIONS
{{- range .Flags}}
.TP
\fB{{.Names}}\fR
{{.Usage}}
{{- end}}
{{- end}}
{{- if .Subcommands}}
.SH SUBCOMMANDS
{{- range .Subcommands}}
.TP
\fB{{.Name}}\fR
{{.Usage}}
.br
See \fB{{.Page}}\fR(1).
{{- end}}
{{- end}}
`))

type manFlag struct {
	Names string
	Usage string
}

type manSubcommand struct {
	Name  string
	Usage string
	Page  string
}

type manPage struct {
	DashName    string
	UpperName   string
	Title       string
	Version     string
	Usage       string
	Synopsis    string
	Flags       []manFlag
	Subcommands []manSubcommand
}

// generateManPages writes one page per (sub)command to dir, naming nested
// pages with dash-joined prefixes: jg.1, jg-generate.1, jg-generate-shell.1.
func (a *App) generateManPages(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output man directories: %w", err)
	}

	root := a.Command()
	if err := a.writeManPage(dir, root.Name, rootManPage(root)); err != nil {
		return err
	}
	return a.writeSubcommandPages(dir, root.Name, root.Commands)
}

func (a *App) writeSubcommandPages(dir, prefix string, cmds []*cli.Command) error {
	for _, cmd := range cmds {
		dashName := prefix + "-" + cmd.Name
		if err := a.writeManPage(dir, dashName, commandManPage(dashName, cmd)); err != nil {
			return err
		}
		if len(cmd.Subcommands) > 0 {
			if err := a.writeSubcommandPages(dir, dashName, cmd.Subcommands); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) writeManPage(dir, dashName string, page manPage) error {
	path := filepath.Join(dir, dashName+".1")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := manTemplate.Execute(f, page); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	fmt.Fprintf(a.Stdout, "Generated: %s\n", path)
	return nil
}

func rootManPage(app *cli.App) manPage {
	page := manPage{
		DashName:  app.Name,
		UpperName: strings.ToUpper(app.Name),
		Title:     app.Name,
		Version:   app.Version,
		Usage:     app.Usage,
		Synopsis:  "[\\fIOPTIONS\\fR] \\fIQUERY\\fR [\\fIFILE\\fR]",
		Flags:     manFlags(app.Flags),
	}
	for _, cmd := range app.Commands {
		page.Subcommands = append(page.Subcommands, manSubcommand{
			Name:  cmd.Name,
			Usage: cmd.Usage,
			Page:  app.Name + "-" + cmd.Name,
		})
	}
	return page
}

func commandManPage(dashName string, cmd *cli.Command) manPage {
	synopsis := "[\\fIOPTIONS\\fR]"
	if cmd.ArgsUsage != "" {
		synopsis = "\\fI" + cmd.ArgsUsage + "\\fR"
	}
	page := manPage{
		DashName:  dashName,
		UpperName: strings.ToUpper(dashName),
		Title:     dashName,
		Version:   Version,
		Usage:     cmd.Usage,
		Synopsis:  synopsis,
		Flags:     manFlags(cmd.Flags),
	}
	for _, sub := range cmd.Subcommands {
		page.Subcommands = append(page.Subcommands, manSubcommand{
			Name:  sub.Name,
			Usage: sub.Usage,
			Page:  dashName + "-" + sub.Name,
		})
	}
	return page
}

func manFlags(flags []cli.Flag) []manFlag {
	var out []manFlag
	for _, f := range flags {
		df, ok := f.(cli.DocGenerationFlag)
		if !ok {
			continue
		}
		var names []string
		for _, n := range f.Names() {
			if len(n) == 1 {
				names = append(names, "\\-"+n)
			} else {
				names = append(names, "\\-\\-"+n)
			}
		}
		out = append(out, manFlag{
			Names: strings.Join(names, ", "),
			Usage: df.GetUsage(),
		})
	}
	return out
}

package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/urfave/cli/v2"
)

type completionData struct {
	Name        string
	Flags       []string
	FlagUsages  map[string]string
	Subcommands []string
}

var bashCompletion = template.Must(template.New("bash").Parse(
	`# bash completion for {{.Name}}
_{{.Name}}_complete() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="{{range .Flags}}{{.}} {{end}}{{range .Subcommands}}{{.}} {{end}}"

    if [[ ${cur} == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
    case "${prev}" in
        shell)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )
            return 0
            ;;
        generate)
            COMPREPLY=( $(compgen -W "shell man" -- "${cur}") )
            return 0
            ;;
    esac
    COMPREPLY=( $(compgen -W "${opts}" -f -- "${cur}") )
}
complete -o default -F _{{.Name}}_complete {{.Name}}
`))

var zshCompletion = template.Must(template.New("zsh").Parse(
	`#compdef {{.Name}}

_{{.Name}}() {
    local -a opts
    opts=(
{{- range .Flags}}
        '{{.}}[{{index $.FlagUsages .}}]'
{{- end}}
    )
    _arguments -s \
        "${opts[@]}" \
        '1:query or subcommand:({{range .Subcommands}}{{.}} {{end}})' \
        '2:file:_files'
}

_{{.Name}} "$@"
`))

var fishCompletion = template.Must(template.New("fish").
	Funcs(template.FuncMap{
		"trimDashes": func(s string) string { return strings.TrimLeft(s, "-") },
	}).
	Parse(
		`# fish completion for {{.Name}}
{{- range .Flags}}
complete -c {{$.Name}} -l {{trimDashes .}} -d '{{index $.FlagUsages .}}'
{{- end}}
{{- range .Subcommands}}
complete -c {{$.Name}} -n '__fish_use_subcommand' -a '{{.}}'
{{- end}}
complete -c {{.Name}} -n '__fish_seen_subcommand_from generate' -a 'shell man'
complete -c {{.Name}} -n '__fish_seen_subcommand_from shell' -a 'bash zsh fish'
`))

// completionScript renders a completion script for shell from the app's
// command tree.
func completionScript(app *cli.App, shell string) (string, error) {
	data := completionData{
		Name:       app.Name,
		FlagUsages: make(map[string]string),
	}
	for _, f := range app.Flags {
		long := f.Names()[0]
		flag := "--" + long
		data.Flags = append(data.Flags, flag)
		if df, ok := f.(cli.DocGenerationFlag); ok {
			data.FlagUsages[flag] = df.GetUsage()
		}
	}
	for _, cmd := range app.Commands {
		data.Subcommands = append(data.Subcommands, cmd.Name)
	}

	var tmpl *template.Template
	switch shell {
	case "bash":
		tmpl = bashCompletion
	case "zsh":
		tmpl = zshCompletion
	case "fish":
		tmpl = fishCompletion
	default:
		return "", fmt.Errorf("unsupported shell %q (expected bash, zsh, or fish)", shell)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

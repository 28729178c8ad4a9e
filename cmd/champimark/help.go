package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": flagHelp,
	}).ParseFS(helpFS, "templates/*.txt"))
}

// flagInfo is one flag as the help templates print it. Arg is the
// placeholder named in backquotes in the usage text, and Default is empty
// for zero values.
type flagInfo struct {
	Name    string
	Arg     string
	Default string
	Usage   string
}

func flagHelp(fs *flag.FlagSet) []flagInfo {
	var result []flagInfo
	if fs == nil {
		return result
	}
	fs.VisitAll(func(f *flag.Flag) {
		arg, usage := flag.UnquoteUsage(f)
		info := flagInfo{Name: f.Name, Arg: arg, Usage: usage}
		switch f.DefValue {
		case "", "false", "0", "0s":
		default:
			info.Default = f.DefValue
		}
		result = append(result, info)
	})
	return result
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

// usageFunc adapts a command's help template to flag.FlagSet.Usage.
func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string {
	return "root.txt"
}

func (a *annotateCmd) Template() string {
	return "annotate.txt"
}

func (c *renderCmd) Template() string {
	return "render.txt"
}

func (b *boxesCmd) Template() string {
	return "boxes.txt"
}

func (c *configCmd) Template() string {
	return "config.txt"
}

func (v *versionCmd) Template() string {
	return "version.txt"
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	ta "github.com/akshaylive/typeadapter"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		validateCmd(os.Args[2:])
	case "schema":
		schemaCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "typeadapter CLI\n\nUsage:\n  typeadapter validate -schema schema.json data.json [data2.json ...]\n  typeadapter schema -schema schema.json\n\nNotes:\n  - Schemas with a .yaml/.yml extension are parsed as YAML.\n  - validate exits non-zero when any input fails.")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "schema file (JSON or YAML)")
	_ = fs.Parse(args)
	if schemaPath == "" || fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	adapter := loadAdapter(schemaPath)
	ctx := context.Background()
	failed := false
	for _, path := range fs.Args() {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		if _, err := adapter.ValidateJSON(ctx, raw); err != nil {
			failed = true
			if iss, ok := ta.AsIssues(err); ok {
				for _, it := range iss {
					fmt.Fprintf(os.Stderr, "%s: %s at %s: %s\n", path, it.Code, it.Path, it.Message)
				}
				continue
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failed {
		os.Exit(1)
	}
}

func schemaCmd(args []string) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "schema file (JSON or YAML)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	adapter := loadAdapter(schemaPath)
	out, err := json.MarshalIndent(adapter.Schema(), "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func loadAdapter(path string) *ta.TypeAdapter {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var adapter *ta.TypeAdapter
	var diag ta.Diag
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		adapter, diag, err = ta.CompileYAML(raw, ta.Options{})
	} else {
		adapter, diag, err = ta.Compile(raw, ta.Options{})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile %s: %v\n", path, err)
		os.Exit(1)
	}
	if diag != nil && diag.HasWarnings() {
		for _, w := range diag.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}
	return adapter
}

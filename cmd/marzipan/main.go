package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	marzipan "github.com/marzipan-go/marzipan"
	"github.com/marzipan-go/marzipan/codec"
	"github.com/marzipan-go/marzipan/openapi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "validate":
		validateCmd(os.Args[2:])
	case "fields":
		fieldsCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `marzipan CLI

Usage:
  marzipan validate -schema api.yaml -component Name [-format json|yaml] [-many] [payload-file]
  marzipan fields   -schema api.yaml [-component Name]

validate reads a payload from the given file or stdin, loads it against the
named component schema, and prints the collected errors. Exit code 1 means
the payload failed validation.`)
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath, component, format string
	var many bool
	fs.StringVar(&schemaPath, "schema", "", "OpenAPI 3 document")
	fs.StringVar(&component, "component", "", "component schema name")
	fs.StringVar(&format, "format", "json", "payload format: json or yaml")
	fs.BoolVar(&many, "many", false, "payload is a sequence of records")
	_ = fs.Parse(args)
	if schemaPath == "" || component == "" {
		fs.Usage()
		os.Exit(2)
	}

	def := loadComponent(schemaPath, component)

	var opts []marzipan.BindOption
	if many {
		opts = append(opts, marzipan.Many())
	}
	s, err := def.Bind(opts...)
	if err != nil {
		fatalf("bind: %v", err)
	}

	payload, err := readPayload(fs.Args())
	if err != nil {
		fatalf("read payload: %v", err)
	}

	c := payloadCodec(format)
	v, err := c.Decode(payload)
	if err != nil {
		fatalf("decode %s: %v", c.Name(), err)
	}
	res, err := s.Load(context.Background(), v)
	if err != nil {
		fatalf("load: %v", err)
	}
	if res.HasErrors() {
		printErrors(res.Errors, many)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func fieldsCmd(args []string) {
	fs := flag.NewFlagSet("fields", flag.ExitOnError)
	var schemaPath, component string
	fs.StringVar(&schemaPath, "schema", "", "OpenAPI 3 document")
	fs.StringVar(&component, "component", "", "component schema name (all when omitted)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	if component != "" {
		def := loadComponent(schemaPath, component)
		fmt.Printf("%s: %s\n", component, strings.Join(def.FieldNames(), ", "))
		return
	}
	defs, _, err := openapi.ImportDocument(mustRead(schemaPath), openapi.Options{})
	if err != nil {
		fatalf("import: %v", err)
	}
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %s\n", name, strings.Join(defs[name].FieldNames(), ", "))
	}
}

func loadComponent(schemaPath, component string) *marzipan.Definition {
	defs, diag, err := openapi.ImportDocument(mustRead(schemaPath), openapi.Options{})
	if err != nil {
		fatalf("import: %v", err)
	}
	for _, w := range diag.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	def, ok := defs[component]
	if !ok {
		fatalf("component %q not found in %s", component, schemaPath)
	}
	return def
}

func payloadCodec(format string) marzipan.Codec {
	switch format {
	case "json":
		return codec.JSON()
	case "yaml":
		return codec.YAML()
	default:
		fatalf("unknown format %q", format)
		return nil
	}
}

func readPayload(args []string) ([]byte, error) {
	if len(args) > 0 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func printErrors(bag marzipan.ErrorBag, many bool) {
	if many {
		byIndex := bag.ByIndex()
		indices := make([]int, 0, len(byIndex))
		for i := range byIndex {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		for _, i := range indices {
			for field, msgs := range byIndex[i].AsMap() {
				fmt.Printf("[%d] %s: %v\n", i, field, msgs)
			}
		}
		return
	}
	for field, msgs := range bag.AsMap() {
		fmt.Printf("%s: %v\n", field, msgs)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "marzipan: "+format+"\n", args...)
	os.Exit(1)
}

func mustRead(path string) []byte {
	b, err := os.ReadFile(path)
	if err != nil {
		fatalf("%v", err)
	}
	return b
}

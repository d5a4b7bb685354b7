package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	avrokit "github.com/reoring/avrokit"
	"github.com/reoring/avrokit/avroschema"
	"github.com/reoring/avrokit/codec"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(2)
		}
		fatalf("%v", err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	switch args[0] {
	case "resolve":
		return resolveCmd(args[1:], stdin, stdout)
	case "validate":
		return validateCmd(args[1:], stdin, stdout)
	case "encode":
		return encodeCmd(args[1:], stdin, stdout)
	case "decode":
		return decodeCmd(args[1:], stdin, stdout)
	}
	return errUsage
}

func usage() {
	fmt.Fprintln(os.Stderr, "avrokit CLI\n\nUsage:\n  avrokit resolve  -schema s.avsc [-in data.json] [-show]\n  avrokit validate -schema s.avsc [-in data.json]\n  avrokit encode   -schema s.avsc [-in data.json]        (prints base64)\n  avrokit decode   -writer w.avsc [-reader r.avsc] [-in data.b64]\n\nNotes:\n  - Schemas ending in .yaml or .yml (or any schema with -yaml) are read as YAML.\n  - -in defaults to stdin.")
}

type common struct {
	in      string
	yaml    bool
	verbose bool
	stdin   io.Reader
}

func newFlagSet(name string, c *common, stdin io.Reader) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&c.in, "in", "-", "input file, - for stdin")
	fs.BoolVar(&c.yaml, "yaml", false, "read schemas as YAML")
	fs.BoolVar(&c.verbose, "v", false, "enable verbose logs")
	c.stdin = stdin
	return fs
}

func (c *common) logf(format string, a ...any) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
}

func (c *common) input() ([]byte, error) {
	if c.in == "" || c.in == "-" {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(c.in)
}

func (c *common) readJSON() (avrokit.Value, error) {
	data, err := c.input()
	if err != nil {
		return avrokit.Value{}, fmt.Errorf("read input: %w", err)
	}
	return avrokit.FromJSONBytes(data)
}

func resolveCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	var c common
	var schemaPath string
	var show bool
	fs := newFlagSet("resolve", &c, stdin)
	fs.StringVar(&schemaPath, "schema", "", "schema file")
	fs.BoolVar(&show, "show", false, "print the typed value instead of JSON")
	if err := fs.Parse(args); err != nil || schemaPath == "" {
		return errUsage
	}

	s, err := loadSchema(schemaPath, c.yaml)
	if err != nil {
		return fmt.Errorf("schema %s: %w", schemaPath, err)
	}
	c.logf("resolve: schema=%s in=%s", schemaPath, c.in)
	v, err := c.readJSON()
	if err != nil {
		return err
	}
	out, err := v.Resolve(s.Tree())
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	if show {
		_, err = fmt.Fprintln(stdout, out.String())
		return err
	}
	return printJSON(stdout, out)
}

func validateCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	var c common
	var schemaPath string
	fs := newFlagSet("validate", &c, stdin)
	fs.StringVar(&schemaPath, "schema", "", "schema file")
	if err := fs.Parse(args); err != nil || schemaPath == "" {
		return errUsage
	}

	s, err := loadSchema(schemaPath, c.yaml)
	if err != nil {
		return fmt.Errorf("schema %s: %w", schemaPath, err)
	}
	v, err := c.readJSON()
	if err != nil {
		return err
	}
	// JSON carries no extension types, so conformance is checked on the resolved value.
	out, err := v.Resolve(s.Tree())
	if err != nil {
		return fmt.Errorf("invalid: %w", err)
	}
	if !out.Validate(s.Tree()) {
		return fmt.Errorf("invalid: resolved value does not conform to %s", s.Tree())
	}
	c.logf("validate: %s", out)
	_, err = fmt.Fprintln(stdout, "ok")
	return err
}

func encodeCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	var c common
	var schemaPath string
	fs := newFlagSet("encode", &c, stdin)
	fs.StringVar(&schemaPath, "schema", "", "schema file")
	if err := fs.Parse(args); err != nil || schemaPath == "" {
		return errUsage
	}

	s, err := loadSchema(schemaPath, c.yaml)
	if err != nil {
		return fmt.Errorf("schema %s: %w", schemaPath, err)
	}
	v, err := c.readJSON()
	if err != nil {
		return err
	}
	data, err := codec.Binary(s).Encode(context.Background(), v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	c.logf("encode: %d bytes", len(data))
	_, err = fmt.Fprintln(stdout, base64.StdEncoding.EncodeToString(data))
	return err
}

func decodeCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	var c common
	var writerPath, readerPath string
	fs := newFlagSet("decode", &c, stdin)
	fs.StringVar(&writerPath, "writer", "", "writer schema file")
	fs.StringVar(&readerPath, "reader", "", "reader schema file (defaults to the writer schema)")
	if err := fs.Parse(args); err != nil || writerPath == "" {
		return errUsage
	}

	writer, err := loadSchema(writerPath, c.yaml)
	if err != nil {
		return fmt.Errorf("schema %s: %w", writerPath, err)
	}
	reader := writer
	if readerPath != "" {
		if reader, err = loadSchema(readerPath, c.yaml); err != nil {
			return fmt.Errorf("schema %s: %w", readerPath, err)
		}
	}
	raw, err := c.input()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("decode base64: %w", err)
	}
	c.logf("decode: writer=%s reader=%s bytes=%d", writerPath, readerPath, len(data))
	v, err := codec.Resolving(writer, reader).Decode(context.Background(), data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return printJSON(stdout, v)
}

// loadSchema reads an Avro schema file, as YAML when asked to or when the
// extension says so.
func loadSchema(path string, asYAML bool) (*avroschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		asYAML = true
	}
	if asYAML {
		return avroschema.ParseYAML(data, avroschema.Options{})
	}
	return avroschema.ParseBytes(data, avroschema.Options{})
}

func printJSON(w io.Writer, v avrokit.Value) error {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

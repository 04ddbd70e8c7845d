// Package main provides the CLI entry point for xmlschema: inspect XSD
// schemas, convert XML documents to JSON, and validate instance documents.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	xmlschema "github.com/agentflare-ai/go-xmlschema"
)

var errInvalid = errors.New("document is not valid")

func main() {
	rootCmd := &cobra.Command{
		Use:           "xmlschema",
		Short:         "XML Schema compiler and validator",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.AddCommand(newInspectCmd(), newXMLToJSONCmd(), newValidateCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

type inspectConfig struct {
	elements   bool
	types      bool
	attributes bool
	groups     bool
	jsonOut    bool
	catalog    string
}

func (c *inspectConfig) registerFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.elements, "elements", false, "list global element declarations")
	flags.BoolVar(&c.types, "types", false, "list global type definitions")
	flags.BoolVar(&c.attributes, "attributes", false, "list global attribute declarations")
	flags.BoolVar(&c.groups, "groups", false, "list named model groups")
	flags.BoolVar(&c.jsonOut, "json", false, "emit JSON instead of text")
	flags.StringVar(&c.catalog, "catalog", "", "OASIS XML catalog for resolving schema locations")
}

func newInspectCmd() *cobra.Command {
	cfg := &inspectConfig{}
	cmd := &cobra.Command{
		Use:   "inspect <schema.xsd>",
		Short: "Print a summary of a schema's global components",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInspect(cfg, args[0])
		},
	}
	cfg.registerFlags(cmd.Flags())
	return cmd
}

func runInspect(cfg *inspectConfig, path string) error {
	schema, err := loadSchema(path, cfg.catalog)
	if err != nil {
		return err
	}

	if cfg.jsonOut {
		summary := map[string]any{
			"targetNamespace": schema.TargetNamespace,
			"version":         schema.Version,
			"elementCount":    schema.Globals.ElementCount(),
			"typeCount":       schema.Globals.TypeCount(),
		}
		if cfg.elements {
			summary["elements"] = qnameStrings(schema.ElementNames())
		}
		if cfg.types {
			summary["types"] = qnameStrings(schema.TypeNames())
		}
		if cfg.attributes {
			summary["attributes"] = qnameStrings(schema.AttributeNames())
		}
		if cfg.groups {
			summary["groups"] = qnameStrings(schema.GroupNames())
		}
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("schema %s\n", path)
	fmt.Printf("  target namespace: %s\n", orNone(schema.TargetNamespace))
	fmt.Printf("  version: XSD %s\n", schema.Version)
	fmt.Printf("  elements: %d, types: %d, attributes: %d, groups: %d\n",
		schema.Globals.ElementCount(), schema.Globals.TypeCount(),
		len(schema.Globals.Attributes), len(schema.Globals.Groups))
	printSection := func(enabled bool, title string, names []xmlschema.QName) {
		if !enabled {
			return
		}
		fmt.Printf("  %s:\n", title)
		for _, name := range names {
			fmt.Printf("    %s\n", name)
		}
	}
	printSection(cfg.elements, "elements", schema.ElementNames())
	printSection(cfg.types, "types", schema.TypeNames())
	printSection(cfg.attributes, "attributes", schema.AttributeNames())
	printSection(cfg.groups, "groups", schema.GroupNames())
	for _, err := range schema.Errors {
		fmt.Printf("  warning: %v\n", err)
	}
	return nil
}

func newXMLToJSONCmd() *cobra.Command {
	var (
		format string
		pretty bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "xml2json <file.xml>",
		Short: "Convert an XML document to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := xmlschema.ParseDocument(data)
			if err != nil {
				return err
			}
			out, err := xmlschema.ConvertToJSON(doc, xmlschema.JSONFormat(format), pretty)
			if err != nil {
				return err
			}
			out = append(out, '\n')
			if output == "" || output == "-" {
				_, err = os.Stdout.Write(out)
				return err
			}
			return os.WriteFile(output, out, 0o644)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "default", "conversion format: default|parker|badgerfish|unordered")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty print the output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var (
		schemaPath string
		mode       string
		catalog    string
	)
	cmd := &cobra.Command{
		Use:   "validate --schema <schema.xsd> <file.xml>",
		Short: "Validate an XML document against an XSD schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			schema, err := loadSchema(schemaPath, catalog)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := xmlschema.ParseDocument(data)
			if err != nil {
				return err
			}

			validator := xmlschema.NewValidator(schema)
			validator.Mode = xmlschema.ValidationMode(mode)
			violations := validator.Validate(doc)
			if len(violations) == 0 {
				fmt.Printf("%s is valid\n", args[0])
				return nil
			}

			converter := xmlschema.NewDiagnosticConverter(args[0], string(data))
			for _, d := range converter.Convert(violations) {
				fmt.Println(d.Render())
			}
			fmt.Printf("%s is not valid: %d error(s)\n", args[0], len(violations))
			return errInvalid
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "path to the XSD schema")
	cmd.Flags().StringVarP(&mode, "mode", "m", "strict", "validation mode: strict|lax")
	cmd.Flags().StringVar(&catalog, "catalog", "", "OASIS XML catalog for resolving schema locations")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func loadSchema(path, catalogPath string) (*xmlschema.Schema, error) {
	if catalogPath != "" {
		return xmlschema.LoadSchemaFileWithCatalog(path, catalogPath)
	}
	return xmlschema.LoadSchemaFile(path)
}

func qnameStrings(names []xmlschema.QName) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name.String())
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

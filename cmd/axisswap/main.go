package main

import (
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/geoaxis/internal/config"
	"github.com/woozymasta/geoaxis/internal/processor"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Input  string `short:"i" long:"in"     description:"Input GeoJSON or coordinate array. Reads from stdin if empty"`
	Output string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Minify bool   `short:"m" long:"minify" description:"Minify JSON output"`
	BBox   bool   `short:"b" long:"bbox"   description:"Add bbox member to the output"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Read Input
	var inputData []byte
	var err error

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
	} else {
		inputData, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	doc, err := processor.Convert(inputData, opts.BBox)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting input: %v\n", err)
		os.Exit(1)
	}

	outputData, err := processor.Encode(doc, opts.Format, opts.Minify)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted to %s (format: %s)\n", opts.Output, opts.Format)
	} else {
		_, _ = os.Stdout.Write(outputData)
		if opts.Format == config.FormatJSON && opts.Minify {
			fmt.Println()
		}
	}
}

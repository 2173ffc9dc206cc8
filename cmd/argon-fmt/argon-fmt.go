package main

import (
	"fmt"
	"io"
	"os"

	"github.com/argon-go/argon"
	"github.com/jessevdk/go-flags"
)

const version = "0.1.0"

type cmdopts struct {
	Indent         int  `long:"indent" default:"2" description:"spaces per indentation level"`
	Compact        bool `long:"compact" description:"disable pretty printing"`
	KeepComments   bool `long:"keep-comments" description:"retain comments"`
	KeepPI         bool `long:"keep-pi" description:"retain processing instructions"`
	KeepWhitespace bool `long:"keep-whitespace" description:"retain whitespace-only text nodes"`
	Version        bool `long:"version" description:"print version and exit"`
}

func main() {
	os.Exit(_main())
}

func showUsage() {
	fmt.Printf(`Usage : argon-fmt [options] XMLfiles ...
	Parse the XML files (or stdin) and print the canonical serialization
	--version : display the version of the XML library used
`)
}

func _main() int {
	opts := cmdopts{}
	args, err := flags.ParseArgs(&opts, os.Args[1:])
	if err != nil {
		showUsage()
		return 1
	}

	if opts.Version {
		fmt.Printf("argon-fmt: using argon version %s\n", version)
		return 0
	}

	settings := argon.Settings{
		IgnoreComments:               !opts.KeepComments,
		IgnoreProcessingInstructions: !opts.KeepPI,
		IgnoreWhitespace:             !opts.KeepWhitespace,
		PrettyPrinting:               !opts.Compact,
		PrettyIndent:                 opts.Indent,
	}

	if len(args) == 0 {
		return format(os.Stdin, settings)
	}
	for _, f := range args {
		fh, err := os.Open(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return 1
		}
		code := format(fh, settings)
		fh.Close()
		if code != 0 {
			return code
		}
	}
	return 0
}

func format(in io.Reader, settings argon.Settings) int {
	buf, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	list, err := argon.ParseList(string(buf), argon.WithSettings(settings))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	fmt.Println(list.ToXMLString(argon.WithSettings(settings)))
	return 0
}

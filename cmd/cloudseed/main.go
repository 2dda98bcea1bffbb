// Command cloudseed runs audio through the CloudSeed stereo reverb.
//
// Usage:
//
//	cloudseed <command> [flags] [args]
//
// Commands:
//
//	render  process a 16-bit WAV file and write the result
//	ir      render the impulse response and print decay metrics
//	params  print the parameters and the physical values they map to
//	play    play a WAV file through the reverb
//
// Examples:
//
//	cloudseed render -o wet.wav -set mix=0.4 -set decay=0.7 dry.wav
//	cloudseed ir -preset hall.json -o hall-ir.wav
//	cloudseed params -json > hall.json
//	cloudseed play -loop drums.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
)

type command struct {
	name    string
	summary string
	run     func(args []string) error
}

var commands = []command{
	{"render", "process a 16-bit WAV file and write the result", runRender},
	{"ir", "render the impulse response and print decay metrics", runIR},
	{"params", "print the parameters and the physical values they map to", runParams},
	{"play", "play a WAV file through the reverb", runPlay},
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("cloudseed: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		usage()
		return
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(os.Args[2:])
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	log.Printf("unknown command %q", name)
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: cloudseed <command> [flags] [args]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s%s\n", c.name, c.summary)
	}
	fmt.Fprintf(os.Stderr, "\nRun 'cloudseed <command> -h' for the flags of a command.\n")
}

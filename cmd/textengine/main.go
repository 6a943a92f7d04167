// Command textengine runs the line-oriented text command front-end. With no
// arguments it reads from standard input; given a positional argument, it
// reads commands from that file instead.
package main

import (
	"fmt"
	"os"

	"matchcore/internal/engine"
	"matchcore/internal/textproto"
)

func main() {
	in := os.Stdin
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "textengine: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	eng := engine.New()
	proc := textproto.New(eng)
	proc.ProcessStream(in, os.Stdout)
}

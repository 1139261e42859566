// Command bitpack inspects and converts packed records described by schema
// files.
//
//	bitpack layout  header.yaml
//	bitpack encode  header.yaml a=5 b=9 c=true
//	bitpack decode  header.yaml cd
//	bitpack inspect header.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

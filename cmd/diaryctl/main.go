// Command diaryctl browses and edits the diary from the terminal.
//
// Settings are read from ~/.daybook/config.toml, then the environment, then
// flags, with later sources winning.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, a := newRootCmd()
	err := root.Execute()
	if cerr := a.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "close:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

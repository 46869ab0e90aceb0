package main

import (
	"os"

	"github.com/MladenSU/color-mtr/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

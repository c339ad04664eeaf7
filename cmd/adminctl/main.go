package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/bytonbyte/internal/adminctl"
)

func main() {
	if err := adminctl.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

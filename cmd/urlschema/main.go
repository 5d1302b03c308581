package main

import (
	"fmt"
	"os"

	"github.com/serroba/community-web/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "urlschema:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	_ "github.com/crucial707/fileserve/cmd/cli/auth"
	_ "github.com/crucial707/fileserve/cmd/cli/files"
	"github.com/crucial707/fileserve/cmd/cli/root"
	_ "github.com/crucial707/fileserve/cmd/cli/users"
)

func main() {
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/doe300/vc4c-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

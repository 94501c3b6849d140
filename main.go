package main

import (
	"github.com/yaoapp/hal/cmd"
)

func main() {
	cmd.Execute()
}

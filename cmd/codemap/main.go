package main

import "github.com/mvp-joe/codemap/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/mvp-joe/scriptlens/internal/cli"

func main() {
	cli.Execute()
}

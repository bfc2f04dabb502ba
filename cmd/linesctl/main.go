package main

import "github.com/preston-bernstein/sports-lines-service/internal/cli"

func main() {
	cli.Execute()
}

package main

import "invoice-insights-backend/cli"

func main() {
	cli.Execute()
}

// Command claimctl computes quotes and renders travel claims without the HTTP server.
package main

var version = "dev"

func main() {
	Execute(version)
}

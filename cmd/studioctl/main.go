// Package main is studioctl, the headless AstraMesh command line.
package main

func main() {
	Execute()
}

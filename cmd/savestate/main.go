// Command savestate inspects, expands and stores saved games.
package main

func main() {
	Execute()
}

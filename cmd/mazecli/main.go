// Command mazecli generates mazes and plays them locally in the terminal.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[MAZECLI] [FATAL] %v", err)
	}
}

package main

import (
	"fmt"
	"os"
	"strings"

	"yatube/service"
)

const CliVersion = "1.0.0"

// exit is a variable so tests can observe exit codes
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line to the matching subcommand.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help", "-h", "--help":
		printHelp()
	case "version", "--version":
		fmt.Printf("yatube version %s\n", CliVersion)
	default:
		if code := service.HandleCommand(append([]string{cmd}, os.Args[2:]...)); code != 0 {
			exit(code)
		}
	}
}

func printHelp() {
	helpText := `Usage: yatube <command> [arguments]

A small blogging platform: authors publish posts, optionally filed under groups.

Commands:
  help                                        Display this help message.
  version                                     Show version information.
  serve [--addr <addr>]                       Run the blog server.
  init | clean                                Create or delete the database.
  backup [file] | restore <file>              Back up or restore the database.
  createuser <username> <password>            Create an author account.
  creategroup <slug> <title> [description]    Create a group.
  deletegroup <slug>                          Delete a group, keeping its posts.
  deleteuser <username>                       Delete a user and all their posts.
`
	fmt.Println(helpText)
}

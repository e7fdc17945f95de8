// Command filemanager is the standalone file-manager utility. It offers
// the same list/create/read/delete operations over a fixed local
// directory as a CLI and, via the serve subcommand, as an HTTP API.
package main

import (
	"errors"
	"fmt"
	"os"

	"contenthub/filemanager"
	"contenthub/utils"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	dir := os.Getenv("FILES_DIR")
	if dir == "" {
		dir = "files"
	}
	store, err := filemanager.NewStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		files, err := store.List()
		exitOnError(err)
		if len(files) == 0 {
			fmt.Println("No files found.")
			return
		}
		for _, f := range files {
			fmt.Println(f)
		}
	case "create":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: filemanager create <name> <content>")
			os.Exit(1)
		}
		exitOnError(store.Create(os.Args[2], os.Args[3]))
		fmt.Printf("Created %s\n", os.Args[2])
	case "read":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: filemanager read <name>")
			os.Exit(1)
		}
		content, err := store.Read(os.Args[2])
		exitOnError(err)
		fmt.Print(content)
	case "delete":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: filemanager delete <name>")
			os.Exit(1)
		}
		exitOnError(store.Delete(os.Args[2]))
		fmt.Printf("Deleted %s\n", os.Args[2])
	case "serve":
		addr := ":8081"
		if len(os.Args) > 2 {
			addr = os.Args[2]
		}
		fmt.Printf("Serving file manager for %s on %s\n", store.Dir(), addr)
		if err := filemanager.Router(store).Run(addr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", appErr.Message)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`filemanager - manage plain files in a fixed local directory

Usage:
  filemanager list                      List stored files
  filemanager create <name> <content>   Create a new file
  filemanager read <name>               Print a file's content
  filemanager delete <name>             Delete a file
  filemanager serve [addr]              Serve the HTTP API (default :8081)

The directory defaults to ./files and can be set with FILES_DIR.`)
}

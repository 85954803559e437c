package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"recipe-costing/internal/app"
)

// Exec runs one command line, given as arguments, against the command tree.
type Exec func(ctx context.Context, args []string)

var errExit = errors.New("exit")

// Run starts the interactive loop. Lines are split shell-style and handed to
// exec, except for help, exit and the new-recipe wizard which the shell
// handles itself. Run returns on exit or end of input.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer, exec Exec) {
	fmt.Fprintln(out, "Recipe Costing")
	fmt.Fprintln(out, "Type a command (e.g. 'recipes list'), 'new-recipe <name>' or 'help'.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	dispatch := func(input string) error {
		tokens, err := shlex.Split(input)
		if err != nil {
			return err
		}
		if len(tokens) == 0 {
			return nil
		}
		switch strings.ToLower(tokens[0]) {
		case "help", "h":
			printHelp(out)
		case "exit", "quit", "e", "q":
			return errExit
		case "new-recipe":
			if len(tokens) < 2 {
				fmt.Fprintln(out, "Usage: new-recipe <name>")
				return nil
			}
			handleNewRecipe(ctx, reader, out, svc, strings.Join(tokens[1:], " "))
		default:
			exec(ctx, tokens)
		}
		return nil
	}

	for {
		fmt.Fprint(out, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			if err := dispatch(input); err != nil {
				if errors.Is(err, errExit) {
					fmt.Fprintln(out, "Goodbye!")
					return
				}
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}
		if readErr != nil {
			fmt.Fprintln(out)
			return
		}
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Commands:
  ingredients list | add | update <id> | restock <id> <qty> | delete <id>
  recipes list | get <id> | create <name> --item <id>=<qty> ... | delete <id>
  sales list | get <id> | record <recipe-id> <amount> [-q N] | delete <id>
  dashboard
  new-recipe <name>     build a recipe interactively
  help                  show this list
  exit                  leave the shell
Add --format json to any command for machine-readable output.`)
}

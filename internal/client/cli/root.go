package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to PassVault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("pv %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: add, (l)ist, show, update, delete, generate, 2fa, export, import, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, generate, exit")
			}

		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "2fa":
			a.enableTwoFactor(ctx)
		case "add":
			a.add(ctx)
		case "l", "list":
			a.list(ctx, args)
		case "show":
			a.show(ctx, args)
		case "update":
			a.update(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "generate":
			a.generate(args)
		case "export":
			a.export(ctx, args)
		case "import":
			a.importEntries(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}

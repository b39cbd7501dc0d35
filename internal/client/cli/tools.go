package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dsmirnov/passvault/internal/generator"
)

func (a *App) generate(args []string) {
	opt := generator.DefaultOptions()

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Println("Usage: generate [length]")
			return
		}
		opt.Length = n
	}

	pw, err := generator.Generate(opt)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(pw)
}

func (a *App) export(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: export <file>")
		return
	}

	f, err := os.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer f.Close()

	if err := a.vault.Export(ctx, f); err != nil {
		a.reportVaultError(err)
		return
	}

	fmt.Println("Exported to", args[0])
	fmt.Println("Warning: the file contains plaintext passwords")
}

func (a *App) importEntries(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: import <file>")
		return
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer f.Close()

	n, err := a.vault.Import(ctx, f)
	if err != nil {
		fmt.Printf("Import stopped after %d entries: %v\n", n, err)
		return
	}

	fmt.Printf("Imported %d entries\n", n)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dsmirnov/passvault/internal/client/services"
	"github.com/dsmirnov/passvault/internal/common"
)

func (a *App) reportVaultError(err error) {
	switch {
	case errors.Is(err, common.ErrKeyNotAvailable):
		fmt.Println("No encryption key available, please log in first")
	case errors.Is(err, common.ErrorUnauthorized):
		fmt.Println("Session expired, please log in again")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Println("Entry not found")
	default:
		fmt.Println("Error:", err)
	}
}

func (a *App) add(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	password, err := GetPassword(os.Stdout, "Password to store")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	url, err := GetSimpleText(a.reader, "URL (optional)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	notes, err := GetSimpleText(a.reader, "Notes (optional)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	tags, err := GetTags(a.reader, os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	entry := &services.Entry{Title: title, Password: string(password), URL: url, Notes: notes, Tags: tags}
	common.WipeByteArray(password)

	created, err := a.vault.Add(ctx, entry)
	if err != nil {
		a.reportVaultError(err)
		return
	}

	fmt.Println("Saved with id", created.ID)
}

func (a *App) list(ctx context.Context, args []string) {
	search := ""
	if len(args) > 0 {
		search = strings.Join(args, " ")
	}

	entries, err := a.vault.List(ctx, search)
	if err != nil {
		a.reportVaultError(err)
		return
	}

	if len(entries) == 0 {
		fmt.Println("No entries")
		return
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %s", e.ID, e.Title)
		if len(e.Tags) > 0 {
			line += "  [" + strings.Join(e.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
}

func (a *App) show(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: show <id>")
		return
	}

	entry, err := a.vault.Get(ctx, args[0])
	if err != nil {
		a.reportVaultError(err)
		return
	}

	fmt.Println("Title:   ", entry.Title)
	fmt.Println("Password:", entry.Password)
	if entry.URL != "" {
		fmt.Println("URL:     ", entry.URL)
	}
	if entry.Notes != "" {
		fmt.Println("Notes:   ", entry.Notes)
	}
	if len(entry.Tags) > 0 {
		fmt.Println("Tags:    ", strings.Join(entry.Tags, ", "))
	}
}

func (a *App) update(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: update <id>")
		return
	}

	entry, err := a.vault.Get(ctx, args[0])
	if err != nil {
		a.reportVaultError(err)
		return
	}

	// Empty input keeps the current value.
	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", entry.Title), os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if title != "" {
		entry.Title = title
	}

	password, err := GetPassword(os.Stdout, "Password (empty to keep)")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(password) > 0 {
		entry.Password = string(password)
		common.WipeByteArray(password)
	}

	if _, err := a.vault.Update(ctx, entry); err != nil {
		a.reportVaultError(err)
		return
	}

	fmt.Println("Updated")
}

func (a *App) delete(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: delete <id>")
		return
	}

	if err := a.vault.Delete(ctx, args[0]); err != nil {
		a.reportVaultError(err)
		return
	}

	fmt.Println("Deleted")
}

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/aethermind/aethermind/internal/deck"
	"github.com/aethermind/aethermind/internal/deckbuilder"
	"github.com/aethermind/aethermind/internal/storage"
	"github.com/aethermind/aethermind/internal/storage/models"
)

var (
	titleColor     = color.New(color.FgCyan, color.Bold)
	headingColor   = color.New(color.FgYellow, color.Bold)
	commanderColor = color.New(color.FgMagenta, color.Bold)
	acceptColor    = color.New(color.FgGreen)
	rejectColor    = color.New(color.FgRed)
	dimColor       = color.New(color.Faint)
)

// printCreated prints a confirmation for a new deck.
func printCreated(w io.Writer, d *deck.Deck) {
	fmt.Fprintf(w, "Created %s\n", titleColor.Sprint(d.Name))
	fmt.Fprintf(w, "Deck ID: %s\n", d.ID)
}

// printDeck displays a deck grouped by category.
func printDeck(w io.Writer, d *deck.Deck) {
	if d == nil {
		return
	}

	counts := d.Counts()
	fmt.Fprintln(w, titleColor.Sprint(d.Name))
	fmt.Fprintln(w, strings.Repeat("=", len(d.Name)))
	fmt.Fprintf(w, "Color identity: %s\n", d.ColorIdentity())
	fmt.Fprintf(w, "Cards: %d/%d\n\n", counts.Total, deck.MaxCards)

	fmt.Fprintln(w, headingColor.Sprint("Commander"))
	for _, c := range d.Commanders {
		fmt.Fprintf(w, "  %s  %s\n", commanderColor.Sprint(c.Name), dimColor.Sprint(c.ManaCost))
	}
	fmt.Fprintln(w)

	for _, category := range deck.Categories {
		cs := d.Cards(category)
		if len(cs) == 0 {
			continue
		}
		fmt.Fprintln(w, headingColor.Sprintf("%s (%d)", category, len(cs)))
		for _, c := range cs {
			fmt.Fprintf(w, "  %s  %s\n", c.Name, dimColor.Sprint(c.ManaCost))
		}
		fmt.Fprintln(w)
	}
}

// printReport summarizes a build.
func printReport(w io.Writer, r deckbuilder.BuildReport) {
	fmt.Fprintf(w, "Suggested %d, resolved %d, not found %d, lookup errors %d\n",
		r.Suggested, r.Resolved, r.NotFound, r.LookupErrors)
	fmt.Fprintf(w, "%s %d", acceptColor.Sprint("Accepted"), r.Accepted)

	if len(r.Rejected) > 0 {
		reasons := make([]string, 0, len(r.Rejected))
		for reason := range r.Rejected {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		parts := make([]string, 0, len(reasons))
		for _, reason := range reasons {
			parts = append(parts, fmt.Sprintf("%s %d", reason, r.Rejected[deckbuilder.RejectReason(reason)]))
		}
		fmt.Fprintf(w, ", %s %s", rejectColor.Sprint("rejected"), strings.Join(parts, ", "))
	}
	fmt.Fprintf(w, " in %s\n\n", r.Duration.Round(time.Millisecond))
}

// printDeckList displays saved decks, newest first as returned by the store.
func printDeckList(w io.Writer, decks []*models.DeckSummary) {
	if len(decks) == 0 {
		fmt.Fprintln(w, "No saved decks found.")
		return
	}

	fmt.Fprintf(w, "Total Decks: %d\n\n", len(decks))
	for i, d := range decks {
		fmt.Fprintf(w, "%2d. %s  %s\n", i+1, titleColor.Sprint(d.Name), dimColor.Sprint(d.ID))
		fmt.Fprintf(w, "    %s [%s] %d cards, updated %s\n",
			d.Commander, d.ColorIdentity, d.CardCount, d.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

// printBackups lists backup files, newest first.
func printBackups(w io.Writer, backups []storage.BackupInfo) {
	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups found.")
		return
	}

	for _, b := range backups {
		lock := ""
		if b.Encrypted {
			lock = " (encrypted)"
		}
		fmt.Fprintf(w, "%s%s  %s  %d KB\n", titleColor.Sprint(b.Name), lock,
			b.ModTime.Format("2006-01-02 15:04"), b.Size/1024)
	}
}

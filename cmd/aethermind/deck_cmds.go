package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aethermind/aethermind/internal/deck"
)

// commandContext returns a context cancelled on Ctrl+C.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

var newCmd = &cobra.Command{
	Use:   "new <commander> [partner]",
	Short: "Create an empty deck led by a commander",
	Long: `Create an empty deck led by the named commander. The name must match a
card exactly. A second commander may be given when both have Partner.

Examples:
  aethermind new "Omnath, Locus of Mana"
  aethermind new "Thrasios, Triton Hero" "Tymna the Weaver"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		build, _ := cmd.Flags().GetBool("build")

		return withApp(ctx, func(a *app) error {
			d, err := a.decks.CreateDeck(ctx, args...)
			if err != nil {
				return err
			}
			printCreated(cmd.OutOrStdout(), d)

			if !build {
				return nil
			}
			result, err := a.decks.BuildDeck(ctx, d.ID)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), result.Report)
			printDeck(cmd.OutOrStdout(), result.Deck)
			return nil
		})
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <deckID>",
	Short: "Ask for card suggestions and add the legal ones to a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return withApp(ctx, func(a *app) error {
			result, err := a.decks.BuildDeck(ctx, args[0])
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), result.Report)
			printDeck(cmd.OutOrStdout(), result.Deck)
			return nil
		})
	},
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <deckID>",
	Short: "Clear every card except the commanders and build the deck again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return withApp(ctx, func(a *app) error {
			result, err := a.decks.RegenerateDeck(ctx, args[0])
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), result.Report)
			printDeck(cmd.OutOrStdout(), result.Deck)
			return nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <deckID>",
	Short: "Ask for a new deck name based on its cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return withApp(ctx, func(a *app) error {
			d, err := a.decks.RenameDeck(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deck %s is now %s\n", d.ID, titleColor.Sprint(d.Name))
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <deckID>",
	Short: "Display a deck by category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		decklist, _ := cmd.Flags().GetBool("decklist")

		return withApp(ctx, func(a *app) error {
			d, err := a.decks.GetDeck(ctx, args[0])
			if err != nil {
				return err
			}
			if decklist {
				fmt.Fprint(cmd.OutOrStdout(), d.Decklist(true))
				return nil
			}
			printDeck(cmd.OutOrStdout(), d)
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved decks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return withApp(ctx, func(a *app) error {
			decks, err := a.decks.ListDecks(ctx)
			if err != nil {
				return err
			}
			printDeckList(cmd.OutOrStdout(), decks)
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add <deckID> <card name>",
	Short: "Add one card to a deck if it passes the legality checks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return withApp(ctx, func(a *app) error {
			_, reason, err := a.decks.AddCard(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if reason != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", rejectColor.Sprint("Rejected"), args[1], reason)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", acceptColor.Sprint("Added"), args[1])
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <deckID> <category> <card name>",
	Short: "Remove one card from a deck category",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		category, err := deck.ParseCategory(args[1])
		if err != nil {
			return err
		}

		return withApp(ctx, func(a *app) error {
			if _, err := a.decks.RemoveCard(ctx, args[0], category, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[2], category)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <deckID>",
	Short: "Delete a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return withApp(ctx, func(a *app) error {
			if err := a.decks.DeleteDeck(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %s\n", args[0])
			return nil
		})
	},
}

func init() {
	newCmd.Flags().BoolP("build", "b", false, "build the deck right after creating it")
	showCmd.Flags().Bool("decklist", false, "print a plain \"1 Name\" decklist")
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/pages"
)

// guestbookCommand creates the guestbook command group.
func (c *CLI) guestbookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "guestbook",
		Aliases: []string{"gb"},
		Short:   "Read and manage guestbook entries",
	}

	cmd.AddCommand(c.guestbookListCommand())
	cmd.AddCommand(c.guestbookGetCommand())
	cmd.AddCommand(c.guestbookSignCommand())
	cmd.AddCommand(c.guestbookEditCommand())
	cmd.AddCommand(c.guestbookDeleteCommand())

	return cmd
}

func (c *CLI) guestbookListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			page := pages.NewGuestbook(client.Guestbook())
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			if len(page.Entries) == 0 {
				printInfo("No letters yet")
				return nil
			}

			rows := make([][]string, 0, len(page.Entries))
			for _, e := range page.Entries {
				rows = append(rows, []string{e.ID, signature(e.From), truncate(e.Subject, 30), truncate(oneLine(e.Message), 50)})
			}
			printTable([]string{"ID", "From", "Subject", "Message"}, rows)
			return nil
		},
	}
}

func (c *CLI) guestbookGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			e, err := client.Guestbook().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printEntry(e)
			return nil
		},
	}
}

// entryFlags are the editable fields of an entry.
type entryFlags struct {
	from    string
	subject string
	message string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "who the letter is from (blank signs as Anonymous)")
	cmd.Flags().StringVar(&f.subject, "subject", "", "letter subject")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "letter text")
}

func (c *CLI) guestbookSignCommand() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:     "sign",
		Short:   "Write a letter to the guestbook",
		Example: `  dnhouse guestbook sign --from Georgie --subject Hi -m "Lovely site!"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			letter := pages.NewLetter(client.Guestbook())
			letter.From, letter.Subject, letter.Message = f.from, f.subject, f.message
			if err := letter.Send(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", letter.Status.Text, err)
			}
			printSuccess("%s", letter.Status.Text)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) guestbookEditCommand() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an entry; fields not given keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient()
			if err != nil {
				return err
			}
			gb := client.Guestbook()
			cur, err := gb.Get(ctx, args[0])
			if err != nil {
				return err
			}

			in := backend.EntryInput{From: cur.From, Subject: cur.Subject, Message: cur.Message}
			flags := cmd.Flags()
			if flags.Changed("from") {
				in.From = f.from
			}
			if flags.Changed("subject") {
				in.Subject = f.subject
			}
			if flags.Changed("message") {
				in.Message = f.message
			}

			e, err := gb.Update(ctx, args[0], in)
			if err != nil {
				return err
			}
			printSuccess("Entry updated")
			printEntry(e)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) guestbookDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			res, err := client.Guestbook().Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("%s", resultMessage(res, "Entry deleted"))
			return nil
		},
	}
}

func printEntry(e backend.Entry) {
	printKeyValue("ID", e.ID)
	printKeyValue("From", signature(e.From))
	printKeyValue("Subject", e.Subject)
	printNewline()
	fmt.Println(e.Message)
}

// signature is how an entry is signed on the guestbook page.
func signature(from string) string {
	if strings.TrimSpace(from) == "" {
		return "Anonymous"
	}
	return from
}

// resultMessage returns the backend's acknowledgement or fallback.
func resultMessage(res backend.Result, fallback string) string {
	if res.Message != "" {
		return res.Message
	}
	return fallback
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

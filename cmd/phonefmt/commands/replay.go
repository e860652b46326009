package commands

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"phoneinput_backend/internal/phonefield/domain"
)

// backspaceToken deletes the last character of the display instead of
// typing text.
const backspaceToken = "BS"

func replayCmd() *cobra.Command {
	var (
		initial    string
		commitEach bool
	)

	cmd := &cobra.Command{
		Use:   "replay <keystroke>...",
		Short: "Type keystrokes into a field and print what it shows after each one",
		Long: "Each argument is typed at the end of the field. The argument " + backspaceToken +
			" deletes the last character. The field is committed at the end.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			field := domain.NewField(initial,
				domain.WithRegistry(registry),
				domain.WithOnSave(func(display string) {
					fmt.Fprintf(out, "saved\t%q\n", display)
				}),
			)
			printSnapshot(out, "mount", field.Snapshot())

			for _, key := range args {
				var snap domain.Snapshot
				if key == backspaceToken {
					end := utf8.RuneCountInString(field.Display())
					snap = field.Edit(domain.Backspace(end))
				} else {
					snap = field.Type(key)
				}
				printSnapshot(out, key, snap)

				if commitEach {
					printSnapshot(out, "blur", field.Commit())
				}
			}

			if !commitEach {
				printSnapshot(out, "blur", field.Commit())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&initial, "initial", "", "initial phone number")
	cmd.Flags().BoolVar(&commitEach, "commit-each", false, "blur the field after every keystroke")
	return cmd
}

func printSnapshot(out io.Writer, event string, snap domain.Snapshot) {
	validity := "valid"
	if snap.Invalid {
		validity = "invalid"
	}
	fmt.Fprintf(out, "%s\t%q\t%s\t%s\n", event, snap.Display, snap.State, validity)
}

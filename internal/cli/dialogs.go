package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/snailsynk/snailsynk-go/internal/dialog"
)

// answerDialogs resolves dialog requests on the terminal. Confirms read
// y/n, prompts read a line. Runs for the life of the process.
func (a *App) answerDialogs() {
	reader := bufio.NewReader(os.Stdin)
	for req := range a.dialogs.Requests() {
		switch req.Kind {
		case dialog.KindConfirm:
			fmt.Fprintf(os.Stderr, "%s: %s [y/N] ", req.Title, req.Message)
			line, err := reader.ReadString('\n')
			if err != nil {
				req.Cancel()
				continue
			}
			if strings.EqualFold(strings.TrimSpace(line), "y") {
				req.Confirm()
			} else {
				req.Cancel()
			}
		case dialog.KindChoice:
			fmt.Fprintf(os.Stderr, "%s: %s [s]ave/[d]iscard/[c]ancel ", req.Title, req.Message)
			line, err := reader.ReadString('\n')
			if err != nil {
				req.Cancel()
				continue
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "s", "save":
				req.Choose(dialog.ChoiceSave)
			case "d", "discard":
				req.Choose(dialog.ChoiceDiscard)
			default:
				req.Choose(dialog.ChoiceCancel)
			}
		case dialog.KindPrompt:
			fmt.Fprintf(os.Stderr, "%s: %s (%s): ", req.Title, req.Message, req.Placeholder)
			line, err := reader.ReadString('\n')
			if err != nil {
				req.Cancel()
				continue
			}
			req.Submit(strings.TrimRight(line, "\r\n"))
		default:
			req.Cancel()
		}
	}
}

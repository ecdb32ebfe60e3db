package fetch

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MessagesReadyMsg tells the UI loop that PollMessages has work to do.
type MessagesReadyMsg struct{}

// ListenCmd returns a command that waits until a worker has sent a message.
// It yields nil once the channel is closed. Re-issue it after every poll.
func (c *Controller) ListenCmd() tea.Cmd {
	ch := c.ch
	return func() tea.Msg {
		select {
		case <-ch.Ready():
			return MessagesReadyMsg{}
		case <-ch.Done():
			return nil
		}
	}
}

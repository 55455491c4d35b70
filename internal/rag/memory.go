package rag

import "localchat/internal/model"

// DefaultMemoryWindow is the boot default for the memory window size.
const DefaultMemoryWindow = 10

// Window selects conversation memory from a chronologically ordered history:
// the last windowSize messages, keeping only human turns. The tail is taken
// before filtering, so AI turns inside the window shrink the result rather
// than pulling older user messages in; this bounds prompt growth and avoids
// the model echoing its own replies.
func Window(history []model.Message, windowSize int) []model.Message {
	if windowSize <= 0 {
		windowSize = DefaultMemoryWindow
	}
	if len(history) > windowSize {
		history = history[len(history)-windowSize:]
	}

	selected := make([]model.Message, 0, len(history))
	for _, msg := range history {
		if !msg.IsAI {
			selected = append(selected, msg)
		}
	}
	return selected
}

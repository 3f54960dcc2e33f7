package chat

import "time"

// Seed returns the example chats loaded at startup.
func Seed() []Chat {
	at := func(hh, mm int) time.Time {
		return time.Date(2024, time.March, 10, hh, mm, 0, 0, time.Local)
	}
	return []Chat{
		{
			ID:            "1",
			Name:          "Sarah Wilson",
			Avatar:        "https://images.unsplash.com/photo-1494790108377-be9c29b29330",
			LastMessage:   "Looking forward to our meeting!",
			LastMessageAt: at(10, 2),
			UnreadCount:   2,
			Online:        true,
			Messages: []Message{
				{ID: "1", Content: "Hi there! How are you?", Sender: "Sarah Wilson", Timestamp: at(10, 0)},
				{ID: "2", Content: "I'm doing great, thanks! How about you?", Sender: SelfSender, Timestamp: at(10, 1), IsOwn: true},
				{ID: "3", Content: "Looking forward to our meeting!", Sender: "Sarah Wilson", Timestamp: at(10, 2)},
			},
		},
		{
			ID:            "2",
			Name:          "John Cooper",
			Avatar:        "https://images.unsplash.com/photo-1500648767791-00dcc994a43e",
			LastMessage:   "The project files are ready",
			LastMessageAt: at(9, 30),
			Online:        false,
			Messages: []Message{
				{ID: "1", Content: "Did you get a chance to look at the draft?", Sender: SelfSender, Timestamp: at(9, 15), IsOwn: true},
				{ID: "2", Content: "The project files are ready", Sender: "John Cooper", Timestamp: at(9, 30)},
			},
		},
		{
			ID:            "3",
			Name:          "Emma Thompson",
			Avatar:        "https://images.unsplash.com/photo-1438761681033-6461ffad8d80",
			LastMessage:   "See you tomorrow!",
			LastMessageAt: at(8, 45),
			UnreadCount:   1,
			Online:        true,
			Messages: []Message{
				{ID: "1", Content: "See you tomorrow!", Sender: "Emma Thompson", Timestamp: at(8, 45)},
			},
		},
	}
}

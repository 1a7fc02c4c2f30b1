package domain

import "strings"

// Note is a direct message waiting in a recipient's queue. System generated notes have an empty
// sender.
type Note struct {
	From string
	Text string
}

// Frame returns the stored form of the note, "sender:text".
func (n Note) Frame() string {
	return n.From + ":" + n.Text
}

// ParseNote splits a framed note at its first colon. Text without a colon is taken as a system
// note.
func ParseNote(framed string) Note {
	from, text, ok := strings.Cut(framed, ":")
	if !ok {
		return Note{Text: framed}
	}
	return Note{From: from, Text: text}
}

// Broadcast is a community message copied into a member's queue.
type Broadcast struct {
	From string
	Text string
}

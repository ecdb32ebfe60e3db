// Package fetch coordinates background catalog lookups with the foreground UI loop.
//
// Every user action that needs the network spawns one worker goroutine. The
// worker performs a single blocking call through a Fetcher and reports the
// outcome as exactly one Message on a Channel. The Controller drains that
// channel with a non-blocking poll once per UI cycle and applies each message
// to its State, which the rendering surface reads.
package fetch

import (
	"time"

	"github.com/zjrosen/offview/internal/product"
)

// Kind distinguishes the two request classes. Fencing is tracked per kind.
type Kind int

const (
	KindSearch Kind = iota
	KindDetail
)

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Envelope identifies the worker task that produced a message.
type Envelope struct {
	RequestID uint64
	Kind      Kind
	TaskID    string
	Started   time.Time
}

func (e Envelope) envelope() Envelope { return e }

// Message is the outcome of one worker task. The set of implementations is
// closed: SearchResultsMsg, ProductDetailsMsg and ErrorMsg.
type Message interface {
	envelope() Envelope
}

// SearchResultsMsg carries the products returned by a search.
type SearchResultsMsg struct {
	Envelope
	Products []product.Product
}

// ProductDetailsMsg carries a single product record.
type ProductDetailsMsg struct {
	Envelope
	Detail product.Detail
}

// ErrorMsg carries the human-readable text of a transport or decode failure.
type ErrorMsg struct {
	Envelope
	Text string
}

// EnvelopeOf returns the envelope of msg.
func EnvelopeOf(msg Message) Envelope {
	return msg.envelope()
}

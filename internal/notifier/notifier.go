// Package notifier announces purchases as nostr text notes.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

var DefaultRelays = []string{"wss://nostr.mutinywallet.com"}

func New(nsec string, relayURLs []string) (*Notifier, error) {
	prefix, sk, err := nip19.Decode(nsec)
	if err != nil {
		return nil, fmt.Errorf("nip19 decode: %w", err)
	}
	if prefix != "nsec" {
		return nil, errors.New("notifier key must be an nsec")
	}
	privateKey := sk.(string)

	pubkey, err := nostr.GetPublicKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("get pubkey: %w", err)
	}

	if len(relayURLs) == 0 {
		relayURLs = DefaultRelays
	}

	return &Notifier{
		relayURLs:  relayURLs,
		pubkey:     pubkey,
		privateKey: privateKey,
	}, nil
}

type Notifier struct {
	relayURLs          []string
	pubkey, privateKey string
}

func (n *Notifier) Send(ctx context.Context, content string) {
	event, err := n.newEvent(content)
	if err != nil {
		log.Printf("err: notifier sign: %v", err)
		return
	}
	n.connectAndSend(ctx, event)
}

func (n *Notifier) newEvent(content string) (nostr.Event, error) {
	event := nostr.Event{
		PubKey:    n.pubkey,
		CreatedAt: nostr.Now(),
		Kind:      nostr.KindTextNote,
		Tags:      nil,
		Content:   content,
	}
	err := event.Sign(n.privateKey)

	return event, err
}

func (n *Notifier) connectAndSend(ctx context.Context, event nostr.Event) {
	for _, url := range n.relayURLs {
		n.publish(ctx, url, event)
	}
}

func (n *Notifier) publish(ctx context.Context, url string, event nostr.Event) {
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		log.Printf("err: notifier connect %v: %v", url, err)
		return
	}
	defer relay.Close()

	if _, err := relay.Publish(ctx, event); err != nil {
		log.Printf("err: notifier publish %v: %v", url, err)
	}
}

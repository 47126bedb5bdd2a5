// Package listener reacts to PostgreSQL NOTIFY events. Other writers (the
// mobile client syncs straight into the database) insert account rows without
// going through the API; a trigger notifies us so those accounts get caught
// up immediately instead of waiting for the next scheduled pass.
package listener

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/lib/pq"

	"trackd/internal/domain/processing"
)

const (
	accountChannel    = "account_created"
	reconnectInterval = 5 * time.Second
	keepAliveInterval = 90 * time.Second
)

type accountPayload struct {
	AccountID string `json:"account_id"`
	UserID    int64  `json:"user_id"`
}

// CatchUpRunner is the slice of the processing service the listener needs.
type CatchUpRunner interface {
	CatchUpAccount(ctx context.Context, accountID string) (*processing.CatchUpResult, error)
}

// AccountListener holds a dedicated LISTEN connection and runs catch-up for
// every account announced on the channel.
type AccountListener struct {
	connStr    string
	runner     CatchUpRunner
	shutdownCh chan struct{}
	done       chan struct{}
}

func New(connStr string, runner CatchUpRunner) *AccountListener {
	return &AccountListener{
		connStr:    connStr,
		runner:     runner,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start listens in a background goroutine until Stop or ctx cancellation.
func (l *AccountListener) Start(ctx context.Context) {
	go l.listen(ctx)
	log.Println("Account notification listener started")
}

// Stop shuts the listener down and waits for the goroutine to exit.
func (l *AccountListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	log.Println("Account notification listener stopped")
}

func (l *AccountListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			log.Println("Reconnecting PostgreSQL notification listener...")
		}
	}
}

func (l *AccountListener) connectAndListen(ctx context.Context) {
	pqListener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("Notification listener event error: %v", err)
		}
	})
	defer pqListener.Close()

	if err := pqListener.Listen(accountChannel); err != nil {
		log.Printf("Failed to listen on channel %s: %v", accountChannel, err)
		return
	}

	log.Printf("Listening on channel: %s", accountChannel)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case n := <-pqListener.Notify:
			if n == nil {
				// Connection lost, reconnect from the outer loop.
				return
			}
			l.handle(n)
		case <-time.After(keepAliveInterval):
			go func() {
				if err := pqListener.Ping(); err != nil {
					log.Printf("Notification listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (l *AccountListener) handle(n *pq.Notification) {
	var payload accountPayload
	if err := json.Unmarshal([]byte(n.Extra), &payload); err != nil {
		log.Printf("Failed to parse %s payload: %v", n.Channel, err)
		return
	}
	if payload.AccountID == "" {
		log.Printf("Notification on %s without account_id, skipping", n.Channel)
		return
	}

	// Detached context: shutdown must not abandon a catch-up mid-write.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := l.runner.CatchUpAccount(ctx, payload.AccountID)
		if err != nil {
			log.Printf("Catch-up for announced account %s failed: %v", payload.AccountID, err)
			return
		}
		if res.TransactionsCreated > 0 {
			log.Printf("Caught up announced account %s: %d transactions", payload.AccountID, res.TransactionsCreated)
		}
	}()
}

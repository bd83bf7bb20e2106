// Package main is the terminal chat widget for the support assistant.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopassist-ai/support-chat/internal/auth"
	"github.com/shopassist-ai/support-chat/internal/classify"
	"github.com/shopassist-ai/support-chat/internal/config"
	"github.com/shopassist-ai/support-chat/internal/model"
	"github.com/shopassist-ai/support-chat/internal/quickaction"
	"github.com/shopassist-ai/support-chat/internal/session"
	"github.com/shopassist-ai/support-chat/internal/transport"
	"github.com/shopassist-ai/support-chat/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewFile(cfg.LogLevel, "support-chat.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	creds := auth.NewCredentials(cfg.BearerToken)
	client := transport.NewClient(cfg.BackendBaseURL, creds, log)
	sess := session.NewManager(client, classify.New(log), log)

	ctx := context.Background()
	if err := sess.Start(ctx, cfg.UserIdentifier); err != nil {
		fmt.Fprintf(os.Stderr, "could not reach the support assistant: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Connected to support. Type a message, or /help for commands.")
	rendered := renderNew(sess, 0)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if sess.QuickActionsVisible() {
			printQuickActions()
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit", line == "/exit":
			endSession(ctx, sess)
			return
		case line == "/help":
			printHelp()
			continue
		case line == "/end":
			endSession(ctx, sess)
			return
		case strings.HasPrefix(line, "/feedback"):
			submitFeedback(ctx, client, sess.ConversationID(), line)
			continue
		}

		if sess.QuickActionsVisible() {
			if n, err := strconv.Atoi(line); err == nil {
				actions := quickaction.Catalog()
				if n >= 1 && n <= len(actions) {
					if _, err := quickaction.Dispatch(ctx, sess, actions[n-1].ID); err != nil {
						fmt.Printf("could not send: %v\n", err)
					}
					rendered = renderNew(sess, rendered)
					continue
				}
			}
		}

		if _, err := sess.Send(ctx, line); err != nil {
			switch {
			case errors.Is(err, session.ErrEmptyMessage):
				// Nothing to do; blank input appends nothing.
			case errors.Is(err, session.ErrAwaitingReply):
				fmt.Println("still waiting for the previous reply...")
			default:
				fmt.Printf("could not send: %v\n", err)
			}
			continue
		}
		rendered = renderNew(sess, rendered)
	}

	endSession(ctx, sess)
}

func endSession(ctx context.Context, sess *session.Manager) {
	// Best-effort; the session swallows backend failures here.
	_ = sess.End(ctx)
	fmt.Println("Conversation ended. Goodbye!")
}

func submitFeedback(ctx context.Context, client *transport.Client, conversationID, line string) {
	parts := strings.SplitN(strings.TrimSpace(strings.TrimPrefix(line, "/feedback")), " ", 2)
	rating, err := strconv.Atoi(parts[0])
	if err != nil || rating < 1 || rating > 5 {
		fmt.Println("usage: /feedback <1-5> [comment]")
		return
	}
	comment := ""
	if len(parts) == 2 {
		comment = parts[1]
	}
	if err := client.SubmitFeedback(ctx, conversationID, rating, comment); err != nil {
		fmt.Println("could not submit feedback, sorry.")
		return
	}
	fmt.Println("Thanks for the feedback!")
}

// renderNew prints records appended since the last call and returns the
// new high-water mark.
func renderNew(sess *session.Manager, from int) int {
	records := sess.Messages()
	for _, rec := range records[from:] {
		printRecord(rec)
	}
	return len(records)
}

func printRecord(rec model.MessageRecord) {
	switch rec.Sender {
	case model.SenderUser:
		fmt.Printf("you: %s\n", rec.Body)
		return
	}

	switch rec.Kind {
	case model.KindProductList:
		fmt.Printf("assistant: %s\n", rec.Body)
		for _, p := range rec.Products {
			fmt.Printf("  - %-32s $%.2f  (%d sold, %d in stock)\n", p.Name, p.Price, p.TotalSold, p.StockQuantity)
		}
	case model.KindOrderInfo:
		fmt.Printf("assistant: %s\n", rec.Body)
		printOrder(rec.Order)
	case model.KindError:
		fmt.Printf("assistant [error]: %s\n", rec.Body)
	default:
		fmt.Printf("assistant: %s\n", rec.Body)
	}
}

func printOrder(lookup *model.OrderLookup) {
	if lookup == nil || !lookup.Found || lookup.Order == nil {
		fmt.Println("  (no matching order found)")
		return
	}
	o := lookup.Order
	fmt.Printf("  order %s: %s\n", o.ID, strings.ToUpper(string(o.Status)))
	fmt.Printf("  placed %s for %s\n", o.CreatedAt.Format("Jan 2, 2006"), o.CustomerName)
	if o.TrackingNumber != "" {
		fmt.Printf("  tracking: %s\n", o.TrackingNumber)
	}
	for _, item := range o.Items {
		fmt.Printf("  %dx %s  $%.2f\n", item.Quantity, item.ProductName, item.DisplayTotal())
	}
	if o.TotalAmount != nil {
		fmt.Printf("  total: $%.2f\n", *o.TotalAmount)
	}
}

func printQuickActions() {
	fmt.Println("Quick actions:")
	for i, action := range quickaction.Catalog() {
		fmt.Printf("  %d. %s %s\n", i+1, action.Icon, action.Label)
	}
	fmt.Println("Pick a number or just type your question.")
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /feedback <1-5> [comment]  rate this conversation")
	fmt.Println("  /end                       end the conversation")
	fmt.Println("  /quit                      end and exit")
}

// Package gateway is the chat-transport adapter. It speaks a JSON
// websocket protocol to a relay that fronts the chat platform, drives
// the tracker service with incoming updates, and renders the core's
// actions back into chat messages.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/example/scout/internal/app"
	"github.com/example/scout/internal/config"
	"github.com/example/scout/internal/ports/primary"
)

// maxMessageLen is the chat platform's message size limit. Longer
// replies are chunked.
const maxMessageLen = 4096

// ErrRestartRequested is returned by Run when an admin issued
// /restart. The process supervisor is expected to start a fresh
// instance.
var ErrRestartRequested = errors.New("restart requested by admin")

// Client connects the tracker to the chat-gateway relay.
type Client struct {
	cfg     *config.Config
	tracker primary.TrackerService
	report  primary.ReportService
	logger  *zap.Logger
}

// NewClient creates a gateway client.
func NewClient(cfg *config.Config, tracker primary.TrackerService, report primary.ReportService, logger *zap.Logger) *Client {
	return &Client{
		cfg:     cfg,
		tracker: tracker,
		report:  report,
		logger:  logger,
	}
}

// Run dials the relay and processes updates until the context is done,
// the connection drops, or an admin requests a restart. Updates are
// handled to completion, one at a time, before the next is read.
func (c *Client) Run(ctx context.Context) error {
	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.GatewayURL, header)
	if err != nil {
		return fmt.Errorf("failed to dial gateway: %w", err)
	}
	defer conn.Close()

	c.logger.Info("connected to gateway", zap.String("url", c.cfg.GatewayURL))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var update Update
		if err := conn.ReadJSON(&update); err != nil {
			return fmt.Errorf("failed to read update: %w", err)
		}

		out, err := c.HandleUpdate(ctx, update)
		restart := errors.Is(err, ErrRestartRequested)
		if err != nil && !restart {
			// A single bad message must not take the loop down:
			// surface a generic notice and keep reading.
			c.logger.Error("update failed", zap.Int64("user", update.UserID), zap.Error(err))
			out = []Outbound{{
				Type:    OutboundReply,
				ChatID:  update.ChatID,
				ReplyTo: update.MessageID,
				Text:    "Something went wrong handling that message. The operator has been notified.",
			}}
		}
		for _, msg := range out {
			if err := conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("failed to send: %w", err)
			}
		}
		if restart {
			return ErrRestartRequested
		}
	}
}

// HandleUpdate routes one update and returns the messages to send.
func (c *Client) HandleUpdate(ctx context.Context, update Update) ([]Outbound, error) {
	switch update.Type {
	case UpdateMessage:
		if strings.HasPrefix(update.Text, "/") {
			return c.handleCommand(ctx, update)
		}
		return c.handleForwarded(ctx, update)
	case UpdateCallback:
		return c.handleCallback(ctx, update)
	default:
		c.logger.Debug("ignoring unknown update type", zap.String("type", update.Type))
		return nil, nil
	}
}

// handleForwarded feeds a forwarded game message into the tracker.
// Messages not forwarded from a trusted origin are ignored entirely.
func (c *Client) handleForwarded(ctx context.Context, update Update) ([]Outbound, error) {
	if !c.cfg.IsTrustedOrigin(update.ForwardOrigin) {
		return nil, nil
	}

	c.logger.Info("forwarded message",
		zap.Int64("user", update.UserID),
		zap.String("text", update.Text))

	action, err := c.tracker.HandleMessage(ctx, primary.IncomingMessage{
		UserID:      update.UserID,
		ChatID:      update.ChatID,
		MessageID:   update.MessageID,
		Text:        update.Text,
		Private:     update.Private,
		ForwardedAt: time.Unix(update.ForwardedAt, 0).UTC(),
	})
	if err != nil {
		return nil, err
	}
	return c.renderAction(update, action), nil
}

// handleCallback resolves a location prompt button press.
func (c *Client) handleCallback(ctx context.Context, update Update) ([]Outbound, error) {
	action, err := c.tracker.HandleButton(ctx, primary.ButtonPress{
		UserID:        update.UserID,
		Value:         update.Value,
		CorrelationID: update.CorrelationID,
	})
	if err != nil {
		return nil, err
	}
	return c.renderAction(update, action), nil
}

// handleCommand serves the operator/query surface.
func (c *Client) handleCommand(ctx context.Context, update Update) ([]Outbound, error) {
	cmd := strings.Fields(update.Text)[0]
	switch cmd {
	case "/start":
		return c.reply(update, "New bot. Who dis?\n\nSend me something with your name and guild tag on it."), nil

	case "/routes":
		listings, err := c.report.ListRoutes(ctx)
		if err != nil {
			return nil, err
		}
		return c.reply(update, app.FormatRouteListings(listings)), nil

	case "/dump":
		if !c.requireAdmin(update) {
			return nil, nil
		}
		dump, err := c.report.DumpRoutes(ctx)
		if err != nil {
			return nil, err
		}
		return c.reply(update, dump), nil

	case "/flavors":
		if !c.requireAdmin(update) {
			return nil, nil
		}
		dump, err := c.report.DumpFlavors(ctx)
		if err != nil {
			return nil, err
		}
		return c.reply(update, dump), nil

	case "/restart":
		if !c.requireAdmin(update) {
			return nil, nil
		}
		c.logger.Info("bot is restarting", zap.Int64("admin", update.UserID))
		return c.reply(update, "Bot is restarting..."), ErrRestartRequested

	default:
		return nil, nil
	}
}

// requireAdmin logs and rejects unauthorized use of operator commands.
func (c *Client) requireAdmin(update Update) bool {
	if c.cfg.IsAdmin(update.UserID) {
		return true
	}
	c.logger.Warn("unauthorized command",
		zap.Int64("user", update.UserID),
		zap.String("text", update.Text))
	return false
}

// renderAction translates a core action into relay messages.
func (c *Client) renderAction(update Update, action primary.Action) []Outbound {
	switch action.Type {
	case primary.ActionReply:
		return c.reply(update, action.Text)

	case primary.ActionPromptLocation:
		return []Outbound{{
			Type:          OutboundPrompt,
			ChatID:        update.ChatID,
			ReplyTo:       update.MessageID,
			Text:          "Where was this?",
			Buttons:       primary.LocationTags,
			CorrelationID: action.CorrelationID,
		}}

	case primary.ActionEditMessage:
		return []Outbound{{
			Type:          OutboundEdit,
			CorrelationID: action.CorrelationID,
			Text:          action.Text,
		}}

	default:
		return nil
	}
}

// reply builds quoted reply messages, chunked to the platform limit.
func (c *Client) reply(update Update, text string) []Outbound {
	var out []Outbound
	for _, chunk := range chunkText(text, maxMessageLen) {
		out = append(out, Outbound{
			Type:    OutboundReply,
			ChatID:  update.ChatID,
			ReplyTo: update.MessageID,
			Text:    chunk,
		})
	}
	return out
}

// chunkText splits text into rune-safe pieces of at most limit runes.
func chunkText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	return append(chunks, string(runes))
}

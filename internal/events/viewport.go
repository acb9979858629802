package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topics of the in-process viewport duplex. Commands flow out to the 3D
// viewport, notifications flow back in; keeping the two directions on
// separate topics makes the no-feedback-loop contract explicit.
const (
	TopicViewportCommands      = "viewport.commands"
	TopicViewportNotifications = "viewport.notifications"
)

type ViewportCommandType string

const (
	CommandSwitchTexture  ViewportCommandType = "switch_texture"
	CommandApplyMask      ViewportCommandType = "apply_mask"
	CommandRestoreTexture ViewportCommandType = "restore_texture"
)

// ViewportCommand is one outbound command to the rendering surface.
// Fire-and-forget: no completion signal is ever sent back.
type ViewportCommand struct {
	Type      ViewportCommandType `json:"type"`
	ModelID   string              `json:"model_id,omitempty"`
	TextureID string              `json:"texture_id,omitempty"`
	HexColor  string              `json:"hex_color,omitempty"`
}

// ColorClicked is the single inbound notification: the viewport resolved a
// click on the rendered model to the color of the underlying pixel.
type ColorClicked struct {
	ModelID   string `json:"model_id"`
	TextureID string `json:"texture_id"`
	HexColor  string `json:"hex_color"`
}

// ViewportBus is the transport between the selection cascade and the 3D
// viewport, backed by Watermill's in-process gochannel Pub/Sub.
type ViewportBus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewViewportBus(logger *slog.Logger) *ViewportBus {
	return &ViewportBus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			// Commands are fire-and-forget; buffering keeps Publish from
			// blocking on a slow viewport adapter.
			OutputChannelBuffer: 64,
		}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

// PublishCommand sends one command towards the viewport without waiting for
// delivery.
func (b *ViewportBus) PublishCommand(cmd ViewportCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal viewport command: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("command_type", string(cmd.Type))

	if err := b.pubSub.Publish(TopicViewportCommands, msg); err != nil {
		return fmt.Errorf("failed to publish viewport command: %w", err)
	}
	return nil
}

// PublishColorClicked sends one inbound notification. In production the
// viewport adapter calls this from its render loop; tests use it directly.
func (b *ViewportBus) PublishColorClicked(clicked ColorClicked) error {
	payload, err := json.Marshal(clicked)
	if err != nil {
		return fmt.Errorf("failed to marshal color clicked notification: %w", err)
	}

	if err := b.pubSub.Publish(TopicViewportNotifications, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return fmt.Errorf("failed to publish color clicked notification: %w", err)
	}
	return nil
}

// Commands subscribes to the outbound command stream (consumed by the
// viewport adapter or by tests observing bridge output).
func (b *ViewportBus) Commands(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, TopicViewportCommands)
}

// Notifications subscribes to the inbound notification stream.
func (b *ViewportBus) Notifications(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, TopicViewportNotifications)
}

func (b *ViewportBus) Close() error {
	return b.pubSub.Close()
}

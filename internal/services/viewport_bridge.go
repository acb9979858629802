package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SAP-F-2025/courseware-service/internal/events"
)

// ViewportBridge mediates between the selection cascade and the external 3D
// viewport. Outbound it implements ViewportNotifier, turning state changes
// into commands on the bus; inbound it consumes colorClicked notifications
// and replays them into the cascade with echo suppression.
type ViewportBridge struct {
	bus       *events.ViewportBus
	selection SelectionService
	logger    *slog.Logger

	// last command sent, for duplicate suppression; resending an identical
	// command is a no-op for the viewport, so the bridge drops it early
	lastCommand *events.ViewportCommand
}

func NewViewportBridge(bus *events.ViewportBus, logger *slog.Logger) *ViewportBridge {
	return &ViewportBridge{
		bus:    bus,
		logger: logger,
	}
}

// Bind attaches the bridge to the selection cascade it feeds. Set once
// during session setup, before Run.
func (b *ViewportBridge) Bind(selection SelectionService) {
	b.selection = selection
}

// ===== OUTBOUND (ViewportNotifier) =====

func (b *ViewportBridge) SwitchTexture(modelID, textureID string) {
	b.send(events.ViewportCommand{
		Type:      events.CommandSwitchTexture,
		ModelID:   modelID,
		TextureID: textureID,
	})
}

func (b *ViewportBridge) ApplyMask(textureID, hexColor string) {
	b.send(events.ViewportCommand{
		Type:      events.CommandApplyMask,
		TextureID: textureID,
		HexColor:  hexColor,
	})
}

func (b *ViewportBridge) RestoreTexture() {
	b.send(events.ViewportCommand{
		Type: events.CommandRestoreTexture,
	})
}

func (b *ViewportBridge) send(cmd events.ViewportCommand) {
	if b.lastCommand != nil && *b.lastCommand == cmd {
		b.logger.Debug("duplicate viewport command dropped", "command_type", cmd.Type)
		return
	}

	if err := b.bus.PublishCommand(cmd); err != nil {
		// Commands are fire-and-forget; a publish failure must not fail the
		// selection change that triggered it.
		b.logger.Error("failed to publish viewport command",
			"command_type", cmd.Type,
			"error", err)
		return
	}
	b.lastCommand = &cmd
}

// ===== INBOUND =====

// Run consumes viewport notifications until the context is cancelled. It is
// the single dispatch loop of the session: every inbound click is applied to
// the cascade before the next one is read.
func (b *ViewportBridge) Run(ctx context.Context) error {
	notifications, err := b.bus.Notifications(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-notifications:
			if !ok {
				return nil
			}
			b.handleNotification(msg.Payload)
			msg.Ack()
		}
	}
}

// HandleColorClicked resolves a clicked color against the area map and
// replays the match into the cascade. Unknown colors are a silent no-op;
// clicking an unmapped region of the texture is expected.
func (b *ViewportBridge) HandleColorClicked(clicked events.ColorClicked) {
	if b.selection == nil {
		return
	}

	area, ok := b.selection.ResolveArea(clicked.TextureID, clicked.HexColor)
	if !ok {
		b.logger.Debug("clicked color matches no area",
			"texture_id", clicked.TextureID,
			"hex_color", clicked.HexColor)
		return
	}

	if err := b.selection.ApplyResolvedClick(area); err != nil {
		b.logger.Warn("failed to apply viewport click",
			"texture_id", area.TextureID,
			"hex_color", area.HexColor,
			"error", err)
	}
}

func (b *ViewportBridge) handleNotification(payload []byte) {
	var clicked events.ColorClicked
	if err := json.Unmarshal(payload, &clicked); err != nil {
		b.logger.Warn("dropping malformed viewport notification", "error", err)
		return
	}
	b.HandleColorClicked(clicked)
}

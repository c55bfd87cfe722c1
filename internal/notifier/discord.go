package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/events"
	"github.com/bwmarrin/discordgo"
)

type Notifier interface {
	Notify(ctx context.Context, ev events.Event) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewDiscordSession opens a bot session for posting staff notifications.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	return discordgo.New("Bot " + token)
}

func (n *DiscordNotifier) Notify(ctx context.Context, ev events.Event) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, FormatMessage(ev), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func destinationLabel(ev events.Event) string {
	if ev.DestinationTitle != "" {
		return ev.DestinationTitle
	}
	return ev.DestinationID
}

func FormatMessage(ev events.Event) string {
	switch ev.Type {
	case events.BookingCreated:
		return fmt.Sprintf("🧳 **New Booking** `%s`\n**Destination:** %s\n**Package:** %s\n**Travelers:** %d\n**Travel Date:** %s\n**Total:** ₹%.2f%s",
			ev.BookingRef,
			destinationLabel(ev),
			ev.PackageType,
			ev.Travelers,
			ev.TravelDate,
			ev.TotalPrice,
			requestsLine(ev.SpecialRequests),
		)
	case events.BookingCancelled:
		return fmt.Sprintf("❌ **Booking Cancelled** `%s`\n**Destination:** %s\n**Travel Date:** %s",
			ev.BookingRef,
			destinationLabel(ev),
			ev.TravelDate,
		)
	case events.BookingAmended:
		return fmt.Sprintf("✏️ **Booking Updated** `%s`\n**Destination:** %s%s",
			ev.BookingRef,
			destinationLabel(ev),
			requestsLine(ev.SpecialRequests),
		)
	case events.ReviewCreated:
		return fmt.Sprintf("⭐ **New Review** for %s\n**By:** %s\n**Rating:** %.1f/5",
			destinationLabel(ev),
			ev.ReviewerName,
			ev.Rating,
		)
	default:
		return fmt.Sprintf("**Event:** %s", ev.Type)
	}
}

func requestsLine(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return fmt.Sprintf("\n**Special Requests:** %s", text)
}

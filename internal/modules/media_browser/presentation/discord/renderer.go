package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

// Embed color for browse renders.
const colorBrowse = 0x01B4E4

// ComponentPrefix namespaces this module's custom IDs so other modules'
// interactions are never picked up.
const ComponentPrefix = "media_browser"

// Control actions encoded into custom IDs.
const (
	actionPrevItem  = "prev_item"
	actionNextItem  = "next_item"
	actionPrevPage  = "prev_page"
	actionNextPage  = "next_page"
	actionJump      = "jump"
	actionProviders = "providers"
	actionPublish   = "publish"
	actionFinish    = "finish"
)

// customID builds "media_browser:<sessionID>:<action>".
func customID(sessionID, action string) string {
	return strings.Join([]string{ComponentPrefix, sessionID, action}, ":")
}

// parseCustomID splits a custom ID produced by customID. ok is false for
// IDs belonging to other modules.
func parseCustomID(id string) (sessionID, action string, ok bool) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] != ComponentPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// controlEvent maps a button action to its control event. Jump is not
// mapped; it opens a modal instead.
func controlEvent(action string) (domain.ControlEvent, bool) {
	switch action {
	case actionPrevItem:
		return domain.PrevItem{}, true
	case actionNextItem:
		return domain.NextItem{}, true
	case actionPrevPage:
		return domain.PrevPage{}, true
	case actionNextPage:
		return domain.NextPage{}, true
	case actionProviders:
		return domain.ShowProviders{}, true
	case actionPublish:
		return domain.Publish{}, true
	case actionFinish:
		return domain.Finish{}, true
	default:
		return nil, false
	}
}

// RenderEmbed turns a render model into the session message's embed.
func RenderEmbed(m domain.RenderModel) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       m.Item.Title,
		Description: m.Item.Overview,
		Color:       colorBrowse,
		Footer:      &discordgo.MessageEmbedFooter{Text: m.StatusLine},
	}
	if m.Item.PosterURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: m.Item.PosterURL}
	}
	if m.Item.Date != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Date",
			Value:  m.Item.Date,
			Inline: true,
		})
	}
	if m.Item.VoteCount > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Rating",
			Value:  fmt.Sprintf("%.1f (%d votes)", m.Item.Rating, m.Item.VoteCount),
			Inline: true,
		})
	}
	if len(m.Item.KnownFor) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Known for",
			Value: strings.Join(m.Item.KnownFor, ", "),
		})
	}
	return embed
}

// RenderComponents builds the two control rows for a render model. A
// terminal render keeps the rows but disables every button.
func RenderComponents(m domain.RenderModel) []discordgo.MessageComponent {
	navRow := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "⏮ Page",
				Style:    discordgo.SecondaryButton,
				CustomID: customID(m.SessionID, actionPrevPage),
				Disabled: m.Terminal || !m.Controls.PrevPage,
			},
			discordgo.Button{
				Label:    "◀",
				Style:    discordgo.PrimaryButton,
				CustomID: customID(m.SessionID, actionPrevItem),
				Disabled: m.Terminal || !m.Controls.PrevItem,
			},
			discordgo.Button{
				Label:    "▶",
				Style:    discordgo.PrimaryButton,
				CustomID: customID(m.SessionID, actionNextItem),
				Disabled: m.Terminal || !m.Controls.NextItem,
			},
			discordgo.Button{
				Label:    "Page ⏭",
				Style:    discordgo.SecondaryButton,
				CustomID: customID(m.SessionID, actionNextPage),
				Disabled: m.Terminal || !m.Controls.NextPage,
			},
			discordgo.Button{
				Label:    "Jump",
				Style:    discordgo.SecondaryButton,
				CustomID: customID(m.SessionID, actionJump),
				Disabled: m.Terminal || !m.Controls.JumpPage,
			},
		},
	}
	actionRow := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Where to watch",
				Style:    discordgo.SecondaryButton,
				CustomID: customID(m.SessionID, actionProviders),
				Disabled: m.Terminal || !m.Controls.Providers,
			},
			discordgo.Button{
				Label:    "Publish",
				Style:    discordgo.SuccessButton,
				CustomID: customID(m.SessionID, actionPublish),
				Disabled: m.Terminal || !m.Controls.Publish,
			},
			discordgo.Button{
				Label:    "Finish",
				Style:    discordgo.DangerButton,
				CustomID: customID(m.SessionID, actionFinish),
				Disabled: m.Terminal || !m.Controls.Finish,
			},
		},
	}
	return []discordgo.MessageComponent{navRow, actionRow}
}

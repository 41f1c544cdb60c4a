package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/bot"
	"github.com/telinha/telinha/internal/modules/media_browser/application/usecases"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

// jumpPageInputID identifies the page number input in the jump modal.
const jumpPageInputID = "page"

// ComponentHandlers handles button presses and modal submissions on
// browse session messages.
type ComponentHandlers struct {
	browse *usecases.BrowseService
}

// NewComponentHandlers creates new ComponentHandlers.
func NewComponentHandlers(browse *usecases.BrowseService) *ComponentHandlers {
	return &ComponentHandlers{browse: browse}
}

// HandleComponent handles one control button press. Jump opens a modal;
// everything else is decoded into a control event and applied.
func (h *ComponentHandlers) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	sessionID, action, ok := parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return nil
	}

	if action == actionJump {
		return r.Respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: &discordgo.InteractionResponseData{
				CustomID: customID(sessionID, actionJump),
				Title:    "Jump to page",
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{
						Components: []discordgo.MessageComponent{
							discordgo.TextInput{
								CustomID:  jumpPageInputID,
								Label:     "Page number",
								Style:     discordgo.TextInputShort,
								Required:  true,
								MaxLength: 5,
							},
						},
					},
				},
			},
		})
	}

	event, ok := controlEvent(action)
	if !ok {
		return fmt.Errorf("unknown control action %q", action)
	}
	return h.applyControl(s, i, r, sessionID, event)
}

// HandleModalSubmit handles the jump modal. A non-numeric page gets the
// same private notice as an out-of-range one.
func (h *ComponentHandlers) HandleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	sessionID, action, ok := parseCustomID(i.ModalSubmitData().CustomID)
	if !ok || action != actionJump {
		return nil
	}

	raw := modalInputValue(i, jumpPageInputID)
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return notice(r, fmt.Sprintf("%q is not a page number.", raw))
	}
	return h.applyControl(s, i, r, sessionID, domain.JumpToPage{Page: page})
}

// applyControl runs a control event and answers the interaction with the
// resulting render, a private notice, or both effects publish requires.
func (h *ComponentHandlers) applyControl(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder, sessionID string, event domain.ControlEvent) error {
	ctx := context.Background()

	actorID, err := actorSnowflake(i)
	if err != nil {
		return notice(r, "Invalid interaction")
	}

	output, err := h.browse.HandleControl(ctx, sessionID, actorID, event)
	if err != nil && (output == nil || output.Render == nil) {
		return notice(r, controlErrorMessage(err))
	}

	if output.Notice != "" {
		return notice(r, output.Notice)
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{RenderEmbed(*output.Render)},
			Components: RenderComponents(*output.Render),
		},
	}); err != nil {
		return err
	}

	if output.Snapshot != nil {
		snapshot := *output.Snapshot
		if _, err := s.ChannelMessageSendEmbed(i.ChannelID, RenderEmbed(snapshot)); err != nil {
			return fmt.Errorf("failed to publish view: %w", err)
		}
	}
	return nil
}

// controlErrorMessage maps control errors to a private notice.
func controlErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecases.ErrNotOwner):
		return "Only the person who started this search can use its controls."
	case errors.Is(err, usecases.ErrBusy):
		return "Still fetching, give it a second."
	case errors.Is(err, usecases.ErrInvalidPage):
		// The error names the valid range.
		return fmt.Sprintf("Sorry, %v.", err)
	case errors.Is(err, usecases.ErrSessionClosed), errors.Is(err, usecases.ErrSessionNotFound):
		return "This search has ended. Start a new one."
	case errors.Is(err, usecases.ErrFetchFailed):
		return "The catalog is unreachable right now."
	default:
		return "Something went wrong."
	}
}

func actorSnowflake(i *discordgo.InteractionCreate) (snowflake.ID, error) {
	if i.Member == nil || i.Member.User == nil {
		return 0, fmt.Errorf("interaction outside a guild")
	}
	return snowflake.Parse(i.Member.User.ID)
}

func modalInputValue(i *discordgo.InteractionCreate, inputID string) string {
	for _, row := range i.ModalSubmitData().Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			input, ok := component.(*discordgo.TextInput)
			if ok && input.CustomID == inputID {
				return input.Value
			}
		}
	}
	return ""
}

// notice answers an interaction with an ephemeral message, leaving the
// session message untouched.
func notice(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

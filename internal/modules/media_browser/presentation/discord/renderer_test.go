package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

func TestParseCustomID(t *testing.T) {
	sessionID, action, ok := parseCustomID(customID("abc-123", actionNextItem))
	if !ok {
		t.Fatal("parseCustomID rejected own output")
	}
	if sessionID != "abc-123" || action != actionNextItem {
		t.Errorf("parsed %q/%q", sessionID, action)
	}

	for _, id := range []string{"", "music_player:x:y", "media_browser:only-two"} {
		if _, _, ok := parseCustomID(id); ok {
			t.Errorf("parseCustomID(%q) accepted a foreign ID", id)
		}
	}
}

func TestControlEvent_CoversAllButtonActions(t *testing.T) {
	actions := []string{
		actionPrevItem, actionNextItem, actionPrevPage,
		actionNextPage, actionProviders, actionPublish, actionFinish,
	}
	for _, action := range actions {
		if _, ok := controlEvent(action); !ok {
			t.Errorf("no control event for action %q", action)
		}
	}
	if _, ok := controlEvent(actionJump); ok {
		t.Error("jump should not map to a control event")
	}
}

func TestRenderComponents_TerminalDisablesEverything(t *testing.T) {
	model := domain.RenderModel{
		SessionID: "s",
		Terminal:  true,
		Controls:  domain.ControlsAvailability{},
	}

	for _, row := range RenderComponents(model) {
		actionsRow, ok := row.(discordgo.ActionsRow)
		if !ok {
			t.Fatalf("unexpected component %T", row)
		}
		for _, component := range actionsRow.Components {
			button, ok := component.(discordgo.Button)
			if !ok {
				t.Fatalf("unexpected component %T", component)
			}
			if !button.Disabled {
				t.Errorf("button %q enabled on terminal render", button.CustomID)
			}
		}
	}
}

func TestRenderEmbed_StatusLineInFooter(t *testing.T) {
	model := domain.RenderModel{
		StatusLine: "Result 1/5 on page 1/3",
		Item:       domain.Item{Title: "Dune", Overview: "Spice."},
	}

	embed := RenderEmbed(model)
	if embed.Title != "Dune" {
		t.Errorf("Title = %q", embed.Title)
	}
	if embed.Footer == nil || embed.Footer.Text != model.StatusLine {
		t.Error("status line should land in the footer")
	}
}

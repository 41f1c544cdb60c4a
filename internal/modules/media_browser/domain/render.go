package domain

import "fmt"

// ControlsAvailability says which controls are enabled in a render. It is
// computed deterministically from the session's bounds; a terminal render
// disables everything.
type ControlsAvailability struct {
	PrevItem  bool
	NextItem  bool
	PrevPage  bool
	NextPage  bool
	JumpPage  bool
	Providers bool
	Publish   bool
	Finish    bool
}

// RenderModel is everything needed to display a session's state,
// independent of visual presentation.
type RenderModel struct {
	SessionID  string
	StatusLine string
	Item       Item
	ItemIndex  int // zero-based
	ItemCount  int
	Page       int
	TotalPages int
	Controls   ControlsAvailability
	Terminal   bool
}

// Render produces the session's current view model. A closed session
// renders with every control disabled and a reason-bearing status line.
func (s *BrowseSession) Render() RenderModel {
	model := RenderModel{
		SessionID:  s.id,
		Item:       s.CurrentItem(),
		ItemIndex:  s.itemIndex,
		ItemCount:  len(s.items),
		Page:       s.page,
		TotalPages: s.totalPages,
	}

	if s.closed {
		model.Terminal = true
		model.StatusLine = fmt.Sprintf("Session closed (%s).", s.closeReason)
		return model
	}

	model.StatusLine = fmt.Sprintf(
		"Result %d/%d on page %d/%d",
		s.itemIndex+1, len(s.items), s.page, s.totalPages,
	)
	model.Controls = ControlsAvailability{
		PrevItem:  s.itemIndex > 0,
		NextItem:  s.itemIndex < len(s.items)-1,
		PrevPage:  s.page > 1,
		NextPage:  s.page < s.totalPages,
		JumpPage:  s.totalPages > 1,
		Providers: s.kind != ItemKindPerson,
		Publish:   true,
		Finish:    true,
	}
	return model
}

package domain

// ControlEvent is the closed set of inputs a browse session accepts. The
// presentation layer decodes raw component interactions into exactly one
// of these before the engine ever sees them.
type ControlEvent interface {
	isControlEvent()
}

type (
	// NextItem moves to the next item on the current page.
	NextItem struct{}
	// PrevItem moves to the previous item on the current page.
	PrevItem struct{}
	// NextPage fetches and shows the next result page.
	NextPage struct{}
	// PrevPage fetches and shows the previous result page.
	PrevPage struct{}
	// JumpToPage fetches and shows an arbitrary page.
	JumpToPage struct{ Page int }
	// ShowProviders looks up watch providers for the current item.
	ShowProviders struct{}
	// Publish posts the current view as a standalone message and ends
	// the session.
	Publish struct{}
	// Finish ends the session.
	Finish struct{}
)

func (NextItem) isControlEvent()      {}
func (PrevItem) isControlEvent()      {}
func (NextPage) isControlEvent()      {}
func (PrevPage) isControlEvent()      {}
func (JumpToPage) isControlEvent()    {}
func (ShowProviders) isControlEvent() {}
func (Publish) isControlEvent()       {}
func (Finish) isControlEvent()        {}

package ui

const (
	// ScrollMargin is the number of rows kept visible around the cursor.
	ScrollMargin = 3

	// BorderSize is the space one rounded border takes on each axis.
	BorderSize = 2

	// PanelOverhead is border plus a header row and its separator.
	PanelOverhead = BorderSize + 2
)

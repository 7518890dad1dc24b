package testresults

import (
	"authcheck-cli/testreport"
)

// DisplayItemType represents the type of display item
type DisplayItemType int

const (
	ItemTypeGroupHeader DisplayItemType = iota
	ItemTypeTest
	ItemTypeDivider
)

// TestResultItem represents a result in the list with UI state
type TestResultItem struct {
	Result   testreport.Result
	Expanded bool
}

// GroupHeaderItem represents a group header display item
type GroupHeaderItem struct {
	Name   string
	Counts testreport.Counts
	Time   float64
}

// DisplayItem represents an item in the display list (group header, test, or divider)
type DisplayItem struct {
	Type     DisplayItemType
	Test     *TestResultItem
	Group    *GroupHeaderItem
	Selected bool
}

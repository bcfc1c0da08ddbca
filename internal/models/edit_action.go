// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package models

import (
	"fmt"
	"strings"
)

// EditAction tags the kind of mutation a request performs. It is a label for
// audit records and events, not a workflow state.
type EditAction uint8

// The closed set of edit actions.
const (
	EditActionNone EditAction = iota
	EditActionCreate
	EditActionUpdate
	EditActionDelete
	EditActionChangeStatus

	editActionCount
)

// editActions is the fixed (code, description) table, indexed by EditAction.
var editActions = [editActionCount]struct {
	code        string
	description string
}{
	EditActionNone:         {"NONE", "None"},
	EditActionCreate:       {"CREATE", "Create"},
	EditActionUpdate:       {"UPDATE", "Update"},
	EditActionDelete:       {"DELETE", "Delete"},
	EditActionChangeStatus: {"CHANGE_STATUS", "Change Status"},
}

// EditActions returns every edit action in declaration order.
func EditActions() []EditAction {
	out := make([]EditAction, 0, editActionCount)
	for a := EditActionNone; a < editActionCount; a++ {
		out = append(out, a)
	}
	return out
}

// Describe returns the display label of a.
func Describe(a EditAction) string {
	return a.Description()
}

// Valid reports whether a is one of the declared actions.
func (a EditAction) Valid() bool {
	return a < editActionCount
}

// Code returns the stable machine code, e.g. CHANGE_STATUS.
func (a EditAction) Code() string {
	if !a.Valid() {
		return fmt.Sprintf("EditAction(%d)", uint8(a))
	}
	return editActions[a].code
}

// Description returns the display label, e.g. "Change Status".
func (a EditAction) Description() string {
	if !a.Valid() {
		return ""
	}
	return editActions[a].description
}

// String returns the code.
func (a EditAction) String() string {
	return a.Code()
}

// Mutates reports whether the action changes stored state.
func (a EditAction) Mutates() bool {
	return a.Valid() && a != EditActionNone
}

// ParseEditAction resolves a code, case-insensitively.
func ParseEditAction(code string) (EditAction, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for a := EditActionNone; a < editActionCount; a++ {
		if editActions[a].code == normalized {
			return a, nil
		}
	}
	return EditActionNone, fmt.Errorf("%w: %q", ErrUnknownEditAction, code)
}

// MarshalText encodes the action as its code.
func (a EditAction) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEditAction, uint8(a))
	}
	return []byte(a.Code()), nil
}

// UnmarshalText decodes an action code.
func (a *EditAction) UnmarshalText(text []byte) error {
	parsed, err := ParseEditAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// EditActionInfo is the wire form of one table row.
type EditActionInfo struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// EditActionCatalog returns the full table for clients.
func EditActionCatalog() []EditActionInfo {
	out := make([]EditActionInfo, 0, editActionCount)
	for _, a := range EditActions() {
		out = append(out, EditActionInfo{Code: a.Code(), Description: a.Description()})
	}
	return out
}

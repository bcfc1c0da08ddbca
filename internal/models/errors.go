// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package models

import "errors"

// ErrUnknownEditAction is returned when a code is not in the edit action table.
var ErrUnknownEditAction = errors.New("unknown edit action")
